package superstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard/infrastructure/integrator/superstore/superstoreclient"
	"github.com/vfg2006/sales-dashboard/internal/domain"
)

// SuperstoreService é a fonte padrão do dataset: o CSV remoto baixado via HTTP
type SuperstoreService struct {
	Client superstoreclient.Client
	now    func() time.Time
}

func New(client superstoreclient.Client) *SuperstoreService {
	return &SuperstoreService{
		Client: client,
		now:    time.Now,
	}
}

func (s *SuperstoreService) Name() string {
	return "http:" + s.Client.URL()
}

// Load baixa e interpreta o CSV completo
func (s *SuperstoreService) Load(ctx context.Context) (*domain.SalesTable, error) {
	body, err := s.Client.FetchDataset(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	table, err := ParseSalesCSV(body)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao interpretar o CSV do dataset")
	}

	table.Source = s.Name()
	table.LoadedAt = s.now()

	return table, nil
}
