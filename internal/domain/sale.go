// Package domain contém as estruturas de dados do domínio da aplicação
package domain

import (
	"sort"
	"time"
)

// YearMonthLayout é o formato da chave mensal (YYYY-MM)
const YearMonthLayout = "2006-01"

// SalesRecord representa uma linha do dataset (um item de pedido)
type SalesRecord struct {
	RowID       int       `json:"row_id"`
	OrderDate   time.Time `json:"order_date"`
	ShipDate    time.Time `json:"ship_date"`
	PostalCode  string    `json:"postal_code"`
	YearMonth   string    `json:"year_month"`
	Category    string    `json:"category"`
	SubCategory string    `json:"sub_category"`
	Region      string    `json:"region"`
	Segment     string    `json:"segment"`
	ProductName string    `json:"product_name"`
	Sales       float64   `json:"sales"`
	Profit      float64   `json:"profit"`
	Quantity    int       `json:"quantity"`
}

// SalesTable é o dataset já limpo. Não deve ser alterado depois de carregado.
// Dropped guarda as linhas sem CEP quando a fonte as conhece (CSV); as agregações nunca as leem.
type SalesTable struct {
	Records     []SalesRecord `json:"-"`
	Dropped     []SalesRecord `json:"-"`
	Source      string        `json:"source"`
	LoadedAt    time.Time     `json:"loaded_at"`
	DroppedRows int           `json:"dropped_rows"`
}

// YearMonthOf deriva a chave mensal a partir da data do pedido
func YearMonthOf(t time.Time) string {
	return t.Format(YearMonthLayout)
}

// IsYearMonth verifica se a string está no formato YYYY-MM
func IsYearMonth(s string) bool {
	if len(s) != len(YearMonthLayout) {
		return false
	}
	_, err := time.Parse(YearMonthLayout, s)
	return err == nil
}

func (t *SalesTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// RawRecords junta as linhas limpas e as descartadas na ordem original do arquivo
func (t *SalesTable) RawRecords() []SalesRecord {
	if t == nil {
		return []SalesRecord{}
	}

	all := make([]SalesRecord, 0, len(t.Records)+len(t.Dropped))
	all = append(all, t.Records...)
	all = append(all, t.Dropped...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].RowID < all[j].RowID
	})

	return all
}

func (t *SalesTable) IsEmpty() bool {
	return t.Len() == 0
}

// YearMonths retorna os meses distintos em ordem crescente
func (t *SalesTable) YearMonths() []string {
	if t.IsEmpty() {
		return []string{}
	}

	seen := make(map[string]struct{})
	months := make([]string, 0)
	for _, r := range t.Records {
		if _, ok := seen[r.YearMonth]; ok {
			continue
		}
		seen[r.YearMonth] = struct{}{}
		months = append(months, r.YearMonth)
	}

	sort.Strings(months)
	return months
}
