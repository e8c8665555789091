// Script de carga: baixa o CSV do Superstore e grava todas as linhas na tabela
// lida quando DATASET_SOURCE=postgres. Linhas sem CEP ficam com postal_code NULL.
package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard/infrastructure/integrator/superstore"
	"github.com/vfg2006/sales-dashboard/infrastructure/integrator/superstore/superstoreclient"
	"github.com/vfg2006/sales-dashboard/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard/internal/config"
)

func setupLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logrus.Info("Iniciando script de carga do dataset...")
}

func main() {
	setupLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Dataset.FetchTimeout)
	defer cancel()

	startTime := time.Now()
	source := superstore.New(superstoreclient.NewClient(cfg))

	table, err := source.Load(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("ERRO ao baixar o dataset")
	}
	logrus.WithFields(logrus.Fields{
		"rows":         table.Len(),
		"dropped_rows": table.DroppedRows,
		"elapsed":      time.Since(startTime).String(),
	}).Info("Dataset baixado e interpretado")

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("ERRO ao conectar ao PostgreSQL")
	}
	defer conn.Close()

	writer, err := repository.NewSalesRecordWriter(conn.DB, cfg.Dataset.Table)
	if err != nil {
		logrus.WithError(err).Fatal("ERRO na configuração da tabela")
	}

	insertStart := time.Now()
	written, err := writer.ReplaceAll(ctx, table.RawRecords())
	if err != nil {
		logrus.WithError(err).Fatal("ERRO ao gravar o dataset")
	}

	logrus.WithFields(logrus.Fields{
		"table":   cfg.Dataset.Table,
		"written": written,
		"elapsed": time.Since(insertStart).String(),
	}).Info("Carga concluída com sucesso")
}
