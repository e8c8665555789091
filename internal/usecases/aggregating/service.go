// Package aggregating calcula as agregações do painel a partir do dataset limpo.
// Todas as funções são puras e não alteram a tabela recebida.
package aggregating

import (
	"sort"

	"github.com/vfg2006/sales-dashboard/internal/domain"
)

// TopProductsLimit é o tamanho do ranking de produtos exibido no painel
const TopProductsLimit = 5

// Summary reúne todas as agregações de uma renderização
type Summary struct {
	KPIs          domain.KPIs
	Monthly       []domain.GroupTotal
	ByCategory    []domain.GroupTotal
	ByRegion      []domain.GroupTotal
	TopProducts   []domain.GroupTotal
	BySubCategory []domain.GroupTotal
	BySegment     []domain.GroupTotal
}

// Summarize calcula todas as agregações em uma única chamada
func Summarize(table *domain.SalesTable) Summary {
	return Summary{
		KPIs:          ComputeKPIs(table),
		Monthly:       MonthlySales(table),
		ByCategory:    SalesByCategory(table),
		ByRegion:      SalesByRegion(table),
		TopProducts:   TopProducts(table, TopProductsLimit),
		BySubCategory: SalesBySubCategory(table),
		BySegment:     SalesBySegment(table),
	}
}

// groupSum soma Sales por chave e devolve os grupos em ordem crescente de chave
func groupSum(table *domain.SalesTable, key func(domain.SalesRecord) string) []domain.GroupTotal {
	if table.IsEmpty() {
		return []domain.GroupTotal{}
	}

	totals := make(map[string]float64)
	for _, r := range table.Records {
		totals[key(r)] += r.Sales
	}

	groups := make([]domain.GroupTotal, 0, len(totals))
	for k, v := range totals {
		groups = append(groups, domain.GroupTotal{Key: k, Sales: v})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})

	return groups
}

// MonthlySales soma as vendas por YearMonth em ordem cronológica
func MonthlySales(table *domain.SalesTable) []domain.GroupTotal {
	return groupSum(table, func(r domain.SalesRecord) string { return r.YearMonth })
}

func SalesByCategory(table *domain.SalesTable) []domain.GroupTotal {
	return groupSum(table, func(r domain.SalesRecord) string { return r.Category })
}

func SalesByRegion(table *domain.SalesTable) []domain.GroupTotal {
	return groupSum(table, func(r domain.SalesRecord) string { return r.Region })
}

func SalesBySegment(table *domain.SalesTable) []domain.GroupTotal {
	return groupSum(table, func(r domain.SalesRecord) string { return r.Segment })
}

// SalesBySubCategory ordena da maior para a menor venda
func SalesBySubCategory(table *domain.SalesTable) []domain.GroupTotal {
	groups := groupSum(table, func(r domain.SalesRecord) string { return r.SubCategory })
	sortBySalesDesc(groups)
	return groups
}

// TopProducts devolve os n produtos com maior venda somada.
// Empates são resolvidos pelo nome do produto em ordem crescente.
func TopProducts(table *domain.SalesTable, n int) []domain.GroupTotal {
	if n <= 0 {
		return []domain.GroupTotal{}
	}

	groups := groupSum(table, func(r domain.SalesRecord) string { return r.ProductName })
	sortBySalesDesc(groups)

	if len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// sortBySalesDesc preserva a ordem de chave entre grupos com a mesma venda
func sortBySalesDesc(groups []domain.GroupTotal) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Sales > groups[j].Sales
	})
}

// ComputeKPIs calcula venda total, número de linhas e lucro médio
func ComputeKPIs(table *domain.SalesTable) domain.KPIs {
	if table.IsEmpty() {
		return domain.KPIs{}
	}

	var sales, profit float64
	for _, r := range table.Records {
		sales += r.Sales
		profit += r.Profit
	}

	count := table.Len()
	return domain.KPIs{
		TotalSales:    sales,
		OrdersCount:   count,
		AverageProfit: profit / float64(count),
		HasData:       true,
	}
}

// MonthlyValue procura a venda de um mês na agregação mensal
func MonthlyValue(monthly []domain.GroupTotal, month string) (float64, bool) {
	for _, g := range monthly {
		if g.Key == month {
			return g.Sales, true
		}
	}
	return 0, false
}
