package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vfg2006/sales-dashboard/internal/config"
	"github.com/vfg2006/sales-dashboard/internal/usecases/loading"
	"github.com/vfg2006/sales-dashboard/pkg/log"
)

// DatasetRefreshConfig representa a configuração do agendador de recarga do dataset
type DatasetRefreshConfig struct {
	CronSchedule string
	Enabled      bool
	Timeout      time.Duration
}

// DatasetRefreshService recarrega periodicamente o dataset em memória.
// Uma recarga com falha mantém a tabela anterior.
type DatasetRefreshService struct {
	scheduler *gocron.Scheduler
	config    DatasetRefreshConfig
	loader    loading.DatasetLoader

	refreshRunning     bool
	refreshMutex       sync.Mutex
	lastStartedAt      time.Time
	lastCompletedAt    time.Time
	lastError          string
	completedRefreshes int
}

func NewDatasetRefreshService(loader loading.DatasetLoader, appConfig *config.Config) *DatasetRefreshService {
	refreshConfig := DatasetRefreshConfig{
		CronSchedule: appConfig.DatasetRefresh.CronSchedule,
		Enabled:      appConfig.DatasetRefresh.Enabled,
		Timeout:      appConfig.Dataset.FetchTimeout,
	}

	log.L.WithFields(log.Fields{
		"dataset_refresh_cron":    refreshConfig.CronSchedule,
		"dataset_refresh_enabled": refreshConfig.Enabled,
	}).Info("Configuração do agendador de recarga do dataset carregada")

	return &DatasetRefreshService{
		scheduler: gocron.NewScheduler(time.Local),
		config:    refreshConfig,
		loader:    loader,
	}
}

// Start inicia o agendador
func (s *DatasetRefreshService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		log.L.Info("Recarga agendada do dataset desabilitada por configuração")
		return nil
	}

	log.L.WithField("dataset_refresh_cron", s.config.CronSchedule).Info("Iniciando agendador de recarga do dataset")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.RefreshDataset()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar recarga do dataset: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.Info("Parando agendador de recarga do dataset")
		s.scheduler.Stop()
	}()

	return nil
}

// RefreshDataset executa uma recarga; chamadas sobrepostas são ignoradas
func (s *DatasetRefreshService) RefreshDataset() {
	if !s.claimRefresh() {
		log.L.Info("Recarga do dataset já em andamento, ignorando")
		return
	}
	s.runRefresh()
}

// claimRefresh marca a recarga como em andamento; retorna false se já havia outra
func (s *DatasetRefreshService) claimRefresh() bool {
	s.refreshMutex.Lock()
	defer s.refreshMutex.Unlock()

	if s.refreshRunning {
		return false
	}
	s.refreshRunning = true
	s.lastStartedAt = time.Now()
	return true
}

// runRefresh exige que claimRefresh já tenha sido bem-sucedido
func (s *DatasetRefreshService) runRefresh() {
	ctx, cancel := s.refreshContext()
	defer cancel()

	ctx, _ = log.WithCorrelationID(ctx)
	logger := log.L.WithContext(ctx)
	logger.Info("Iniciando recarga do dataset")

	table, err := s.loader.Refresh(ctx)

	s.refreshMutex.Lock()
	defer s.refreshMutex.Unlock()
	s.refreshRunning = false
	s.lastCompletedAt = time.Now()

	if err != nil {
		s.lastError = err.Error()
		logger.WithError(err).Error("Erro na recarga do dataset, mantendo a tabela anterior")
		return
	}

	s.lastError = ""
	s.completedRefreshes++
	logger.WithFields(log.Fields{
		"rows":        table.Len(),
		"duration_ms": s.lastCompletedAt.Sub(s.lastStartedAt).Milliseconds(),
	}).Info("Recarga do dataset concluída")
}

func (s *DatasetRefreshService) refreshContext() (context.Context, context.CancelFunc) {
	if s.config.Timeout > 0 {
		return context.WithTimeout(context.Background(), s.config.Timeout)
	}
	return context.WithCancel(context.Background())
}

// TriggerManualSync inicia manualmente uma recarga do dataset.
// Retorna false se já houver uma recarga em andamento.
func (s *DatasetRefreshService) TriggerManualSync() bool {
	if !s.claimRefresh() {
		log.L.Info("Recarga do dataset já em andamento, ignorando solicitação manual")
		return false
	}

	log.L.Info("Iniciando recarga manual do dataset")
	go s.runRefresh()
	return true
}

// GetStatus retorna o status atual da recarga
func (s *DatasetRefreshService) GetStatus() map[string]any {
	s.refreshMutex.Lock()
	defer s.refreshMutex.Unlock()

	return map[string]any{
		"refresh_running":           s.refreshRunning,
		"refresh_cron":              s.config.CronSchedule,
		"refresh_enabled":           s.config.Enabled,
		"last_refresh_started_at":   s.lastStartedAt,
		"last_refresh_completed_at": s.lastCompletedAt,
		"last_refresh_error":        s.lastError,
		"completed_refreshes":       s.completedRefreshes,
	}
}
