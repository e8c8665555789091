package loading

import (
	"context"

	"github.com/vfg2006/sales-dashboard/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_loading.go -package=mocks

// Source é qualquer origem capaz de produzir a tabela de vendas completa
type Source interface {
	Load(ctx context.Context) (*domain.SalesTable, error)
	Name() string
}

// DatasetLoader expõe a tabela memoizada para os handlers e o agendador
type DatasetLoader interface {
	// Get devolve a tabela em cache, carregando-a na primeira chamada
	Get(ctx context.Context) (*domain.SalesTable, error)
	// Refresh força uma nova carga e só troca a tabela em caso de sucesso
	Refresh(ctx context.Context) (*domain.SalesTable, error)
	Status() domain.DatasetStatus
}
