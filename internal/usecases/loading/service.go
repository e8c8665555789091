package loading

import (
	"context"
	"sync"
	"time"

	"github.com/vfg2006/sales-dashboard/internal/domain"
	"github.com/vfg2006/sales-dashboard/internal/metrics"
	"github.com/vfg2006/sales-dashboard/pkg/log"
	"golang.org/x/sync/singleflight"
)

const loadKey = "dataset"

// LoaderService memoiza a tabela de vendas durante a vida do processo.
// Chamadas concorrentes compartilham a mesma carga; falhas não ficam em cache.
// A carga compartilhada não herda o cancelamento de quem a iniciou, apenas o timeout.
type LoaderService struct {
	source      Source
	metrics     *metrics.Metrics
	loadTimeout time.Duration

	group singleflight.Group

	mu    sync.RWMutex
	table *domain.SalesTable
	loads int
}

func NewLoaderService(source Source, m *metrics.Metrics, loadTimeout time.Duration) *LoaderService {
	return &LoaderService{
		source:      source,
		metrics:     m,
		loadTimeout: loadTimeout,
	}
}

func (s *LoaderService) cached() *domain.SalesTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

func (s *LoaderService) Get(ctx context.Context) (*domain.SalesTable, error) {
	if table := s.cached(); table != nil {
		return table, nil
	}

	return s.load(ctx, false)
}

func (s *LoaderService) Refresh(ctx context.Context) (*domain.SalesTable, error) {
	return s.load(ctx, true)
}

func (s *LoaderService) load(ctx context.Context, force bool) (*domain.SalesTable, error) {
	key := loadKey
	if force {
		key = loadKey + ":refresh"
	}

	ch := s.group.DoChan(key, func() (interface{}, error) {
		if !force {
			if table := s.cached(); table != nil {
				return table, nil
			}
		}

		loadCtx, cancel := s.loadContext(ctx)
		defer cancel()
		return s.fetch(loadCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.SalesTable), nil
	}
}

// loadContext mantém os valores do contexto (correlation id) sem o cancelamento
func (s *LoaderService) loadContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if s.loadTimeout > 0 {
		return context.WithTimeout(detached, s.loadTimeout)
	}
	return context.WithCancel(detached)
}

func (s *LoaderService) fetch(ctx context.Context) (*domain.SalesTable, error) {
	logger := log.L.WithContext(ctx).WithField("source", s.source.Name())
	logger.Info("Carregando dataset de vendas")

	start := time.Now()
	table, err := s.source.Load(ctx)
	if err == nil && table == nil {
		err = ErrNilTable
	}
	if err != nil {
		s.metrics.RecordDatasetLoad("failure", time.Since(start), 0, 0)
		logger.WithError(err).Error("Falha ao carregar dataset")
		return nil, NewDatasetError(err, s.source.Name())
	}

	s.metrics.RecordDatasetLoad("success", time.Since(start), table.Len(), table.DroppedRows)

	s.mu.Lock()
	s.table = table
	s.loads++
	s.mu.Unlock()

	logger.WithFields(log.Fields{
		"rows":                 table.Len(),
		"dataset_dropped_rows": table.DroppedRows,
		"duration_ms":          time.Since(start).Milliseconds(),
	}).Info("Dataset carregado")

	return table, nil
}

func (s *LoaderService) Status() domain.DatasetStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := domain.DatasetStatus{
		Source: s.source.Name(),
		Loads:  s.loads,
	}
	if s.table == nil {
		return status
	}

	loadedAt := s.table.LoadedAt
	status.Loaded = true
	status.Rows = s.table.Len()
	status.DroppedRows = s.table.DroppedRows
	status.Months = len(s.table.YearMonths())
	status.LoadedAt = &loadedAt

	return status
}
