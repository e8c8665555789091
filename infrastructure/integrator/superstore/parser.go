package superstore

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard/internal/domain"
	"github.com/vfg2006/sales-dashboard/pkg/utils"
)

// Colunas do CSV usadas pelo painel
const (
	ColumnOrderDate   = "Order Date"
	ColumnShipDate    = "Ship Date"
	ColumnPostalCode  = "Postal Code"
	ColumnSales       = "Sales"
	ColumnProfit      = "Profit"
	ColumnQuantity    = "Quantity"
	ColumnCategory    = "Category"
	ColumnSubCategory = "Sub-Category"
	ColumnRegion      = "Region"
	ColumnSegment     = "Segment"
	ColumnProductName = "Product Name"
)

var requiredColumns = []string{
	ColumnOrderDate,
	ColumnShipDate,
	ColumnPostalCode,
	ColumnSales,
	ColumnProfit,
	ColumnQuantity,
	ColumnCategory,
	ColumnSubCategory,
	ColumnRegion,
	ColumnSegment,
	ColumnProductName,
}

type columnIndex map[string]int

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}

func buildColumnIndex(header []string) (columnIndex, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[normalizeHeader(h)] = i
	}

	idx := make(columnIndex, len(requiredColumns))
	missing := make([]string, 0)
	for _, col := range requiredColumns {
		i, ok := byName[normalizeHeader(col)]
		if !ok {
			missing = append(missing, col)
			continue
		}
		idx[col] = i
	}

	if len(missing) > 0 {
		return nil, errors.Wrapf(domain.ErrMalformedDataset, "colunas obrigatórias ausentes: %s", strings.Join(missing, ", "))
	}

	return idx, nil
}

func (c columnIndex) get(row []string, col string) string {
	return strings.TrimSpace(row[c[col]])
}

// ParseSalesCSV lê o CSV do Superstore, interpreta as datas, separa as linhas sem CEP
// em Dropped e deriva a chave YearMonth. Qualquer outra célula inválida invalida o arquivo inteiro.
func ParseSalesCSV(r io.Reader) (*domain.SalesTable, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Wrap(domain.ErrMalformedDataset, "arquivo vazio")
	}
	if err != nil {
		return nil, errors.Wrapf(domain.ErrMalformedDataset, "erro ao ler o cabeçalho: %v", err)
	}

	idx, err := buildColumnIndex(header)
	if err != nil {
		return nil, err
	}

	table := &domain.SalesTable{Records: make([]domain.SalesRecord, 0)}

	for rowIndex := 0; ; rowIndex++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(domain.ErrMalformedDataset, "erro ao ler a linha %d: %v", rowIndex+2, err)
		}

		record, keep, err := parseRow(idx, row, rowIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "linha %d", rowIndex+2)
		}
		if !keep {
			table.DroppedRows++
			table.Dropped = append(table.Dropped, record)
			continue
		}

		table.Records = append(table.Records, record)
	}

	return table, nil
}

// parseRow retorna keep=false quando a linha não tem CEP. A linha descartada
// ainda é interpretada por inteiro para poder ser gravada pelo script de carga.
func parseRow(idx columnIndex, row []string, rowIndex int) (domain.SalesRecord, bool, error) {
	orderDate, err := parseDateCell(idx.get(row, ColumnOrderDate), ColumnOrderDate)
	if err != nil {
		return domain.SalesRecord{}, false, err
	}

	shipDate, err := parseDateCell(idx.get(row, ColumnShipDate), ColumnShipDate)
	if err != nil {
		return domain.SalesRecord{}, false, err
	}

	sales, err := parseFloatCell(idx.get(row, ColumnSales), ColumnSales)
	if err != nil {
		return domain.SalesRecord{}, false, err
	}

	profit, err := parseFloatCell(idx.get(row, ColumnProfit), ColumnProfit)
	if err != nil {
		return domain.SalesRecord{}, false, err
	}

	quantity, err := parseQuantityCell(idx.get(row, ColumnQuantity))
	if err != nil {
		return domain.SalesRecord{}, false, err
	}

	postalCode := idx.get(row, ColumnPostalCode)

	return domain.SalesRecord{
		RowID:       rowIndex,
		OrderDate:   orderDate,
		ShipDate:    shipDate,
		PostalCode:  postalCode,
		YearMonth:   domain.YearMonthOf(orderDate),
		Category:    idx.get(row, ColumnCategory),
		SubCategory: idx.get(row, ColumnSubCategory),
		Region:      idx.get(row, ColumnRegion),
		Segment:     idx.get(row, ColumnSegment),
		ProductName: idx.get(row, ColumnProductName),
		Sales:       sales,
		Profit:      profit,
		Quantity:    quantity,
	}, postalCode != "", nil
}

func parseDateCell(value, column string) (time.Time, error) {
	date, err := utils.ParseDate(value)
	if err != nil {
		return time.Time{}, errors.Wrapf(domain.ErrMalformedDataset, "coluna %q: %v", column, err)
	}
	return date, nil
}

func parseFloatCell(value, column string) (float64, error) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Wrapf(domain.ErrMalformedDataset, "coluna %q: valor numérico inválido %q", column, value)
	}
	return f, nil
}

func parseQuantityCell(value string) (int, error) {
	if q, err := strconv.Atoi(value); err == nil {
		return q, nil
	}

	f, err := parseFloatCell(value, ColumnQuantity)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, errors.Wrapf(domain.ErrMalformedDataset, "coluna %q: quantidade fracionária %q", ColumnQuantity, value)
	}
	return int(f), nil
}
