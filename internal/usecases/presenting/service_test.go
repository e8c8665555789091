package presenting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard/internal/domain"
)

func newTestService() *dashboardService {
	return &dashboardService{
		now:        func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
		generateID: func() (string, error) { return "render0001", nil },
	}
}

func sampleTable() *domain.SalesTable {
	return &domain.SalesTable{Records: []domain.SalesRecord{
		{RowID: 0, YearMonth: "2017-01", Category: "Furniture", Region: "East", Segment: "Consumer", SubCategory: "Chairs", ProductName: "Chair A", Sales: 100, Profit: 10, Quantity: 2, PostalCode: "10001"},
		{RowID: 1, YearMonth: "2017-01", Category: "Technology", Region: "West", Segment: "Corporate", SubCategory: "Phones", ProductName: "Phone B", Sales: 50, Profit: -5, Quantity: 1, PostalCode: "90001"},
		{RowID: 2, YearMonth: "2017-02", Category: "Furniture", Region: "East", Segment: "Consumer", SubCategory: "Chairs", ProductName: "Chair A", Sales: 20, Profit: 4, Quantity: 5, PostalCode: "10001"},
	}}
}

func TestRender_MesSelecionado(t *testing.T) {
	view, err := newTestService().Render(sampleTable(), Selection{Month: "2017-01"})
	require.NoError(t, err)

	assert.Equal(t, "2017-01", view.MonthSelector.Selected)
	assert.Equal(t, 150.0, view.MonthSelector.Sales)
	assert.Equal(t, "$150.00", view.MonthSelector.Display)
	assert.Equal(t, []string{"2017-01", "2017-02"}, view.MonthSelector.Options)
}

func TestRender_MesPadraoEOPrimeiro(t *testing.T) {
	view, err := newTestService().Render(sampleTable(), Selection{})
	require.NoError(t, err)

	assert.Equal(t, "2017-01", view.MonthSelector.Selected)
}

func TestRender_ErrosDeMes(t *testing.T) {
	svc := newTestService()

	_, err := svc.Render(sampleTable(), Selection{Month: "janeiro"})
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = svc.Render(sampleTable(), Selection{Month: "2017-13"})
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = svc.Render(sampleTable(), Selection{Month: "2019-03"})
	assert.ErrorIs(t, err, ErrMonthNotFound)
}

func TestRender_Cards(t *testing.T) {
	view, err := newTestService().Render(sampleTable(), Selection{})
	require.NoError(t, err)

	require.Len(t, view.Cards, 3)
	assert.Equal(t, "Total Sales", view.Cards[0].Label)
	assert.Equal(t, "$170", view.Cards[0].Text)
	assert.Equal(t, "Orders Count", view.Cards[1].Label)
	assert.Equal(t, "3", view.Cards[1].Text)
	assert.Equal(t, "Average Profit", view.Cards[2].Label)
	assert.Equal(t, "$3.00", view.Cards[2].Text)

	assert.Equal(t, "render0001", view.ID)
	assert.Equal(t, DashboardTitle, view.Title)
	assert.False(t, view.Empty)
}

func TestRender_Graficos(t *testing.T) {
	view, err := newTestService().Render(sampleTable(), Selection{})
	require.NoError(t, err)

	byID := make(map[string]domain.Chart)
	for _, c := range view.Charts {
		byID[c.ID] = c
	}
	require.Len(t, byID, 6)

	assert.Equal(t, domain.ChartKindLine, byID[ChartMonthly].Kind)
	assert.Equal(t, []domain.ChartPoint{{Label: "2017-01", Value: 150}, {Label: "2017-02", Value: 20}}, byID[ChartMonthly].Points)
	assert.Equal(t, domain.ChartKindBarH, byID[ChartSubCategory].Kind)
	assert.Equal(t, "Chairs", byID[ChartSubCategory].Points[0].Label)
	assert.Equal(t, "Top 5 Products", byID[ChartTopProducts].Title)
	assert.Equal(t, domain.ChartKindPie, byID[ChartSegment].Kind)

	assert.Len(t, view.Scatter.Points, 3)
	assert.Equal(t, []string{"Furniture", "Technology"}, view.Scatter.Categories)
	assert.Equal(t, "Phone B", view.Scatter.Points[1].Hover)
}

func TestRender_TabelaVazia(t *testing.T) {
	view, err := newTestService().Render(&domain.SalesTable{}, Selection{})
	require.NoError(t, err)

	assert.True(t, view.Empty)
	assert.Empty(t, view.MonthSelector.Options)
	assert.Empty(t, view.MonthSelector.Selected)
	assert.Equal(t, "$0", view.Cards[0].Text)
	assert.Empty(t, view.Scatter.Points)
	for _, c := range view.Charts {
		assert.Empty(t, c.Points, c.ID)
	}

	_, err = newTestService().Render(&domain.SalesTable{}, Selection{Month: "2017-01"})
	assert.ErrorIs(t, err, ErrMonthNotFound)
}
