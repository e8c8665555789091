package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vfg2006/sales-dashboard/internal/api/handler"
	"github.com/vfg2006/sales-dashboard/internal/api/handler/router"
	"github.com/vfg2006/sales-dashboard/internal/config"
	"github.com/vfg2006/sales-dashboard/internal/metrics"
	"github.com/vfg2006/sales-dashboard/internal/scheduler"
	"github.com/vfg2006/sales-dashboard/internal/usecases/loading"
	"github.com/vfg2006/sales-dashboard/internal/usecases/presenting"
	"github.com/vfg2006/sales-dashboard/pkg/log"
	"github.com/vfg2006/sales-dashboard/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer *http.Server
}

// Dependencies reúne os serviços que o servidor expõe
type Dependencies struct {
	Loader                loading.DatasetLoader
	Presenter             presenting.DashboardService
	Page                  *presenting.PageRenderer
	DatasetRefreshService *scheduler.DatasetRefreshService
	Metrics               *metrics.Metrics
	// Gatherer é nil quando as métricas estão desabilitadas
	Gatherer prometheus.Gatherer
}

func New(config *config.Config, deps Dependencies) (*Server, error) {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           NewHandler(config, deps),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}, nil
}

// NewHandler monta o router com todas as rotas e middlewares
func NewHandler(config *config.Config, deps Dependencies) http.Handler {
	dashboardServices := handler.DashboardServices{
		Loader:    deps.Loader,
		Presenter: deps.Presenter,
		Page:      deps.Page,
		Metrics:   deps.Metrics,
	}

	cronServices := handler.CronJobServices{
		DatasetRefreshService: deps.DatasetRefreshService,
	}

	configs := []router.ConfigRouter{
		router.WithRouteMiddleware(func(path string) func(http.Handler) http.Handler {
			return middleware.MetricsMiddleware(deps.Metrics, path)
		}),
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Dashboard(dashboardServices)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	}
	if deps.Gatherer != nil {
		configs = append(configs, router.WithRoutes(handler.Metrics(deps.Gatherer)...))
	}

	rt := router.New(configs...)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.CORSOrigins),
	}

	return alice.New(middlewares...).Then(rt)
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		log.L.WithFields(log.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.L.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		log.L.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		log.L.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.L.WithField("timeout", shutdownTimeout.String()).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.L.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	log.L.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
