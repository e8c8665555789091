// Package presenting transforma o dataset e as agregações na descrição do painel
// (cards, seletor de mês e gráficos) e na página HTML correspondente.
package presenting

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard/internal/domain"
	"github.com/vfg2006/sales-dashboard/internal/usecases/aggregating"
	"github.com/vfg2006/sales-dashboard/pkg/utils"
)

const (
	DashboardTitle = "Superstore Sales Dashboard"
	MonthLabel     = "Select Month"

	ChartMonthly     = "monthly-sales"
	ChartCategory    = "sales-by-category"
	ChartRegion      = "sales-by-region"
	ChartTopProducts = "top-products"
	ChartSubCategory = "sales-by-sub-category"
	ChartSegment     = "sales-by-segment"
	ChartScatter     = "sales-vs-profit"
)

// Selection é o estado da interação do usuário: apenas o mês escolhido.
// Month vazio seleciona o primeiro mês disponível.
type Selection struct {
	Month string
}

type DashboardService interface {
	Render(table *domain.SalesTable, selection Selection) (*domain.View, error)
}

type dashboardService struct {
	now        func() time.Time
	generateID func() (string, error)
}

func NewDashboardService() DashboardService {
	return &dashboardService{
		now:        time.Now,
		generateID: utils.GenerateID,
	}
}

// Render recalcula a view inteira a partir da tabela e da seleção atual
func (s *dashboardService) Render(table *domain.SalesTable, selection Selection) (*domain.View, error) {
	if selection.Month != "" && !domain.IsYearMonth(selection.Month) {
		return nil, errors.Wrapf(ErrInvalidMonth, "mês %q", selection.Month)
	}

	id, err := s.generateID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar ID da renderização")
	}

	summary := aggregating.Summarize(table)

	selector, err := buildMonthSelector(summary.Monthly, selection.Month)
	if err != nil {
		return nil, err
	}

	view := &domain.View{
		ID:            id,
		Title:         DashboardTitle,
		GeneratedAt:   s.now(),
		Empty:         table.IsEmpty(),
		KPIs:          summary.KPIs,
		Cards:         buildCards(summary.KPIs),
		MonthSelector: selector,
		Charts:        buildCharts(summary),
		Scatter:       buildScatter(table),
	}

	return view, nil
}

func buildCards(kpis domain.KPIs) []domain.MetricCard {
	return []domain.MetricCard{
		{Label: "Total Sales", Value: kpis.TotalSales, Text: utils.FormatCurrency(kpis.TotalSales, 0)},
		{Label: "Orders Count", Value: float64(kpis.OrdersCount), Text: strconv.Itoa(kpis.OrdersCount)},
		{Label: "Average Profit", Value: kpis.AverageProfit, Text: utils.FormatCurrency(kpis.AverageProfit, 2)},
	}
}

func buildMonthSelector(monthly []domain.GroupTotal, month string) (domain.MonthSelector, error) {
	selector := domain.MonthSelector{
		Label:   MonthLabel,
		Options: domain.Keys(monthly),
	}

	if len(monthly) == 0 {
		if month != "" {
			return selector, errors.Wrapf(ErrMonthNotFound, "mês %q", month)
		}
		return selector, nil
	}

	if month == "" {
		month = monthly[0].Key
	}

	sales, ok := aggregating.MonthlyValue(monthly, month)
	if !ok {
		return selector, errors.Wrapf(ErrMonthNotFound, "mês %q", month)
	}

	selector.Selected = month
	selector.Sales = sales
	selector.Display = utils.FormatCurrency(sales, 2)

	return selector, nil
}

func toPoints(groups []domain.GroupTotal) []domain.ChartPoint {
	points := make([]domain.ChartPoint, len(groups))
	for i, g := range groups {
		points[i] = domain.ChartPoint{Label: g.Key, Value: g.Sales}
	}
	return points
}

func buildCharts(summary aggregating.Summary) []domain.Chart {
	return []domain.Chart{
		{
			ID:        ChartMonthly,
			Kind:      domain.ChartKindLine,
			Title:     "Monthly Sales Over Time",
			XLabel:    "Year-Month",
			YLabel:    "Sales",
			TickAngle: -45,
			Points:    toPoints(summary.Monthly),
		},
		{
			ID:      ChartCategory,
			Kind:    domain.ChartKindBar,
			Section: "Total Sales by Category",
			Title:   "Total Sales by Category",
			XLabel:  "Category",
			YLabel:  "Sales",
			Points:  toPoints(summary.ByCategory),
		},
		{
			ID:      ChartRegion,
			Kind:    domain.ChartKindBar,
			Section: "Total Sales by Region",
			Title:   "Total Sales by Region",
			XLabel:  "Region",
			YLabel:  "Sales",
			Points:  toPoints(summary.ByRegion),
		},
		{
			ID:        ChartTopProducts,
			Kind:      domain.ChartKindBar,
			Section:   fmt.Sprintf("Top %d Products by Sales", aggregating.TopProductsLimit),
			Title:     fmt.Sprintf("Top %d Products", aggregating.TopProductsLimit),
			XLabel:    "Product",
			YLabel:    "Sales",
			TickAngle: -45,
			Points:    toPoints(summary.TopProducts),
		},
		{
			ID:      ChartSubCategory,
			Kind:    domain.ChartKindBarH,
			Section: "Total Sales by Sub-Category",
			Title:   "Sales by Sub-Category",
			XLabel:  "Sales",
			YLabel:  "Sub-Category",
			Points:  toPoints(summary.BySubCategory),
		},
		{
			ID:      ChartSegment,
			Kind:    domain.ChartKindPie,
			Section: "Sales Distribution by Segment",
			Title:   "Sales Share by Segment",
			Points:  toPoints(summary.BySegment),
		},
	}
}

// buildScatter usa a tabela completa: um ponto por linha
func buildScatter(table *domain.SalesTable) domain.ScatterChart {
	scatter := domain.ScatterChart{
		ID:         ChartScatter,
		Section:    "Sales vs Profit by Product",
		Title:      "Sales vs Profit (bubble size = Quantity)",
		XLabel:     "Sales",
		YLabel:     "Profit",
		Categories: []string{},
		Points:     make([]domain.ScatterPoint, 0, table.Len()),
	}
	if table.IsEmpty() {
		return scatter
	}

	seen := make(map[string]bool)
	for _, r := range table.Records {
		if !seen[r.Category] {
			seen[r.Category] = true
			scatter.Categories = append(scatter.Categories, r.Category)
		}
		scatter.Points = append(scatter.Points, domain.ScatterPoint{
			Sales:    r.Sales,
			Profit:   r.Profit,
			Category: r.Category,
			Quantity: r.Quantity,
			Hover:    r.ProductName,
		})
	}
	sort.Strings(scatter.Categories)

	return scatter
}
