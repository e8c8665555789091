package loading

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard/internal/domain"
)

// RepositorySource lê o dataset de uma tabela Postgres já carregada
type RepositorySource struct {
	repo repository.SalesRecordRepository
	now  func() time.Time
}

func NewRepositorySource(repo repository.SalesRecordRepository) *RepositorySource {
	return &RepositorySource{
		repo: repo,
		now:  time.Now,
	}
}

func (s *RepositorySource) Name() string {
	return "postgres:" + s.repo.Table()
}

func (s *RepositorySource) Load(ctx context.Context) (*domain.SalesTable, error) {
	records, err := s.repo.ListSalesRecords(ctx)
	if err != nil {
		return nil, errors.Wrap(domain.ErrDatasetUnavailable, err.Error())
	}

	dropped, err := s.repo.CountDroppedRecords(ctx)
	if err != nil {
		return nil, errors.Wrap(domain.ErrDatasetUnavailable, err.Error())
	}

	return &domain.SalesTable{
		Records:     records,
		Source:      s.Name(),
		LoadedAt:    s.now(),
		DroppedRows: dropped,
	}, nil
}
