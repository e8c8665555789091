package main

import (
	"context"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard/infrastructure/integrator/superstore"
	"github.com/vfg2006/sales-dashboard/infrastructure/integrator/superstore/superstoreclient"
	"github.com/vfg2006/sales-dashboard/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard/internal/api"
	"github.com/vfg2006/sales-dashboard/internal/config"
	"github.com/vfg2006/sales-dashboard/internal/metrics"
	"github.com/vfg2006/sales-dashboard/internal/scheduler"
	"github.com/vfg2006/sales-dashboard/internal/usecases/loading"
	"github.com/vfg2006/sales-dashboard/internal/usecases/presenting"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		appMetrics *metrics.Metrics
		gatherer   prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		appMetrics = metrics.NewMetrics(registry)
		gatherer = registry
	}

	source, closeSource := datasetSource(ctx, cfg)
	defer closeSource()

	loader := loading.NewLoaderService(source, appMetrics, cfg.Dataset.FetchTimeout)

	// A primeira carga acontece antes de aceitar requisições; sem dataset não há painel
	loadCtx, loadCancel := context.WithTimeout(ctx, cfg.Dataset.FetchTimeout)
	table, err := loader.Get(loadCtx)
	loadCancel()
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar o dataset de vendas")
	}
	logrus.WithFields(logrus.Fields{
		"rows":         table.Len(),
		"dropped_rows": table.DroppedRows,
		"months":       len(table.YearMonths()),
	}).Info("Dataset de vendas carregado com sucesso")

	datasetRefreshService := scheduler.NewDatasetRefreshService(loader, cfg)
	if err := datasetRefreshService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de recarga do dataset")
	}

	server, err := api.New(cfg, api.Dependencies{
		Loader:                loader,
		Presenter:             presenting.NewDashboardService(),
		Page:                  presenting.NewPageRenderer(presenting.NewChartRenderer()),
		DatasetRefreshService: datasetRefreshService,
		Metrics:               appMetrics,
		Gatherer:              gatherer,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// datasetSource escolhe a fonte do dataset conforme DATASET_SOURCE
func datasetSource(ctx context.Context, cfg *config.Config) (loading.Source, func()) {
	if cfg.Dataset.Source != config.DatasetSourcePostgres {
		logrus.WithField("url", cfg.Dataset.URL).Info("Usando CSV remoto como fonte do dataset")
		return superstore.New(superstoreclient.NewClient(cfg)), func() {}
	}

	conn := pgconn(ctx, cfg.Database)

	repo, err := repository.NewSalesRecordRepository(conn, cfg.Dataset.Table)
	if err != nil {
		conn.Close()
		logrus.WithError(err).Fatal("Configuração inválida da tabela do dataset")
	}

	logrus.WithField("table", cfg.Dataset.Table).Info("Usando PostgreSQL como fonte do dataset")
	return loading.NewRepositorySource(repo), func() { conn.Close() }
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
