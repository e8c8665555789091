// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard/internal/domain"
)

const postalCodeText = "COALESCE(CAST(postal_code AS TEXT), '')"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

type SalesRecordRepository interface {
	// ListSalesRecords retorna apenas as linhas com CEP preenchido, na ordem original
	ListSalesRecords(ctx context.Context) ([]domain.SalesRecord, error)
	// CountDroppedRecords conta as linhas descartadas por falta de CEP
	CountDroppedRecords(ctx context.Context) (int, error)
	Table() string
}

type salesRecordRepository struct {
	conn  postgres.Queryer
	table string
}

func NewSalesRecordRepository(conn postgres.Queryer, table string) (SalesRecordRepository, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("nome de tabela inválido: %q", table)
	}

	return &salesRecordRepository{
		conn:  conn,
		table: table,
	}, nil
}

func (r *salesRecordRepository) Table() string {
	return r.table
}

func (r *salesRecordRepository) listQuery() squirrel.SelectBuilder {
	return squirrel.
		Select(
			"row_id",
			"order_date",
			"ship_date",
			postalCodeText,
			"category",
			"sub_category",
			"region",
			"segment",
			"product_name",
			"sales",
			"profit",
			"quantity",
		).
		From(r.table).
		Where(squirrel.Expr(postalCodeText + " <> ''")).
		OrderBy("row_id ASC").
		PlaceholderFormat(squirrel.Dollar)
}

func (r *salesRecordRepository) droppedQuery() squirrel.SelectBuilder {
	return squirrel.
		Select("COUNT(*)").
		From(r.table).
		Where(squirrel.Expr(postalCodeText + " = ''")).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *salesRecordRepository) ListSalesRecords(ctx context.Context) ([]domain.SalesRecord, error) {
	query, args, err := r.listQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	records := make([]domain.SalesRecord, 0)
	for rows.Next() {
		record, err := scanSalesRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear linha do dataset: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}

func (r *salesRecordRepository) CountDroppedRecords(ctx context.Context) (int, error) {
	query, args, err := r.droppedQuery().ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var dropped int
	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&dropped); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("erro ao contar linhas descartadas: %w", err)
	}

	return dropped, nil
}

func scanSalesRecord(rows *sql.Rows) (domain.SalesRecord, error) {
	var (
		record    domain.SalesRecord
		orderDate time.Time
		shipDate  time.Time
	)

	err := rows.Scan(
		&record.RowID,
		&orderDate,
		&shipDate,
		&record.PostalCode,
		&record.Category,
		&record.SubCategory,
		&record.Region,
		&record.Segment,
		&record.ProductName,
		&record.Sales,
		&record.Profit,
		&record.Quantity,
	)
	if err != nil {
		return domain.SalesRecord{}, err
	}

	record.OrderDate = orderDate.UTC()
	record.ShipDate = shipDate.UTC()
	record.YearMonth = domain.YearMonthOf(record.OrderDate)

	return record, nil
}
