package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-dashboard/internal/domain"
)

// insertBatchSize mantém cada INSERT bem abaixo do limite de parâmetros do Postgres
const insertBatchSize = 500

var salesRecordColumns = []string{
	"row_id",
	"order_date",
	"ship_date",
	"postal_code",
	"category",
	"sub_category",
	"region",
	"segment",
	"product_name",
	"sales",
	"profit",
	"quantity",
}

// SalesRecordWriter popula a tabela usada pela fonte Postgres
type SalesRecordWriter struct {
	db    *sql.DB
	table string
}

func NewSalesRecordWriter(db *sql.DB, table string) (*SalesRecordWriter, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("nome de tabela inválido: %q", table)
	}
	return &SalesRecordWriter{db: db, table: table}, nil
}

func createTableSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	row_id       INTEGER PRIMARY KEY,
	order_date   DATE NOT NULL,
	ship_date    DATE NOT NULL,
	postal_code  TEXT,
	category     TEXT NOT NULL,
	sub_category TEXT NOT NULL,
	region       TEXT NOT NULL,
	segment      TEXT NOT NULL,
	product_name TEXT NOT NULL,
	sales        DOUBLE PRECISION NOT NULL,
	profit       DOUBLE PRECISION NOT NULL,
	quantity     INTEGER NOT NULL
)`, table)
}

// buildInsert grava CEP vazio como NULL; é assim que a fonte Postgres reconhece as linhas descartadas
func buildInsert(table string, records []domain.SalesRecord) squirrel.InsertBuilder {
	insert := squirrel.
		Insert(table).
		Columns(salesRecordColumns...).
		PlaceholderFormat(squirrel.Dollar)

	for _, r := range records {
		insert = insert.Values(
			r.RowID,
			r.OrderDate,
			r.ShipDate,
			sql.NullString{String: r.PostalCode, Valid: r.PostalCode != ""},
			r.Category,
			r.SubCategory,
			r.Region,
			r.Segment,
			r.ProductName,
			r.Sales,
			r.Profit,
			r.Quantity,
		)
	}

	return insert
}

// ReplaceAll recria o conteúdo da tabela numa única transação e devolve quantas linhas foram gravadas
func (w *SalesRecordWriter) ReplaceAll(ctx context.Context, records []domain.SalesRecord) (int, error) {
	if _, err := w.db.ExecContext(ctx, createTableSQL(w.table)); err != nil {
		return 0, fmt.Errorf("erro ao criar a tabela %s: %w", w.table, err)
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+w.table); err != nil {
		return 0, fmt.Errorf("erro ao limpar a tabela %s: %w", w.table, err)
	}

	written := 0
	for start := 0; start < len(records); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(records) {
			end = len(records)
		}

		query, args, err := buildInsert(w.table, records[start:end]).ToSql()
		if err != nil {
			return 0, fmt.Errorf("erro ao construir a query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("erro ao inserir linhas %d-%d: %w", start, end-1, err)
		}
		written += end - start
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("erro ao confirmar transação: %w", err)
	}

	return written, nil
}
