package presenting

import (
	"bytes"
	"html/template"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard/internal/domain"
	"github.com/vfg2006/sales-dashboard/pkg/utils"
	"github.com/wcharczuk/go-chart/v2"
)

const (
	chartWidth  = 900
	chartHeight = 420
	// no gráfico mensal só um a cada N meses recebe rótulo
	monthlyTickEvery = 3
)

// ErrNoChartData indica um gráfico sem pontos desenháveis
var ErrNoChartData = errors.New("chart has no data")

// ChartRenderer desenha os gráficos da view como SVG
type ChartRenderer struct {
	Width  int
	Height int
}

func NewChartRenderer() *ChartRenderer {
	return &ChartRenderer{Width: chartWidth, Height: chartHeight}
}

// RenderSVG desenha um gráfico conforme o tipo. O gráfico horizontal e o de dispersão
// não são suportados pelo go-chart e são montados em svg.go.
func (r *ChartRenderer) RenderSVG(c domain.Chart) (template.HTML, error) {
	if len(c.Points) == 0 {
		return "", ErrNoChartData
	}

	var (
		buf bytes.Buffer
		err error
	)

	switch c.Kind {
	case domain.ChartKindLine:
		err = r.lineChart(c).Render(chart.SVG, &buf)
	case domain.ChartKindBar:
		err = r.barChart(c).Render(chart.SVG, &buf)
	case domain.ChartKindPie:
		var pie chart.PieChart
		pie, err = r.pieChart(c)
		if err == nil {
			err = pie.Render(chart.SVG, &buf)
		}
	case domain.ChartKindBarH:
		return horizontalBarSVG(c, r.Width), nil
	default:
		return "", errors.Errorf("tipo de gráfico não suportado: %s", c.Kind)
	}
	if err != nil {
		return "", errors.Wrapf(err, "erro ao desenhar o gráfico %s", c.ID)
	}

	return template.HTML(buf.String()), nil
}

func currencyTick(v interface{}) string {
	if f, ok := v.(float64); ok {
		return utils.FormatCurrency(f, 0)
	}
	return ""
}

// yRange evita o intervalo zero quando todos os valores são iguais
func yRange(points []domain.ChartPoint) *chart.ContinuousRange {
	minV, maxV := points[0].Value, points[0].Value
	for _, p := range points {
		if p.Value < minV {
			minV = p.Value
		}
		if p.Value > maxV {
			maxV = p.Value
		}
	}
	if minV > 0 {
		minV = 0
	}
	if maxV == minV {
		maxV = minV + 1
	}
	return &chart.ContinuousRange{Min: minV, Max: maxV}
}

func (r *ChartRenderer) lineChart(c domain.Chart) chart.Chart {
	xs := make([]float64, len(c.Points))
	ys := make([]float64, len(c.Points))
	for i, p := range c.Points {
		xs[i] = float64(i)
		ys[i] = p.Value
	}

	// um único mês vira um segmento horizontal
	if len(xs) == 1 {
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
	}

	return chart.Chart{
		Title:  c.Title,
		Width:  r.Width,
		Height: r.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 60},
		},
		XAxis: chart.XAxis{
			Name:      c.XLabel,
			Ticks:     monthlyTicks(c.Points),
			TickStyle: chart.Style{TextRotationDegrees: float64(-c.TickAngle)},
		},
		YAxis: chart.YAxis{
			Name:           c.YLabel,
			Range:          yRange(c.Points),
			ValueFormatter: currencyTick,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    c.YLabel,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
					DotWidth:    3,
					DotColor:    chart.ColorBlue,
				},
			},
		},
	}
}

// monthlyTicks rotula um a cada N meses e sempre o último. O go-chart deriva o
// intervalo do eixo X dos ticks, então são necessários ao menos dois valores distintos.
func monthlyTicks(points []domain.ChartPoint) []chart.Tick {
	last := len(points) - 1
	ticks := make([]chart.Tick, 0, len(points)/monthlyTickEvery+2)
	for i, p := range points {
		if i%monthlyTickEvery == 0 || i == last {
			ticks = append(ticks, chart.Tick{Value: float64(i), Label: p.Label})
		}
	}

	if last == 0 {
		ticks = append(ticks, chart.Tick{Value: 1})
	}

	return ticks
}

func (r *ChartRenderer) barChart(c domain.Chart) chart.BarChart {
	bars := make([]chart.Value, len(c.Points))
	for i, p := range c.Points {
		bars[i] = chart.Value{Label: p.Label, Value: p.Value}
	}

	xAxis := chart.Style{}
	bottom := 40
	if c.TickAngle != 0 {
		xAxis.TextRotationDegrees = float64(-c.TickAngle)
		bottom = 140
	}

	return chart.BarChart{
		Title:  c.Title,
		Width:  r.Width,
		Height: r.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Bottom: bottom},
		},
		BarWidth: barWidth(r.Width, len(bars)),
		XAxis:    xAxis,
		YAxis: chart.YAxis{
			Name:           c.YLabel,
			Range:          yRange(c.Points),
			ValueFormatter: currencyTick,
		},
		Bars: bars,
	}
}

func barWidth(width, n int) int {
	w := width / (2 * (n + 1))
	if w > 120 {
		return 120
	}
	if w < 8 {
		return 8
	}
	return w
}

// pieChart exige fatias positivas; valores não positivos não têm participação desenhável
func (r *ChartRenderer) pieChart(c domain.Chart) (chart.PieChart, error) {
	values := make([]chart.Value, 0, len(c.Points))
	var total float64
	for _, p := range c.Points {
		if p.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{Label: p.Label, Value: p.Value})
		total += p.Value
	}
	if len(values) == 0 || total <= 0 {
		return chart.PieChart{}, ErrNoChartData
	}

	return chart.PieChart{
		Title:  c.Title,
		Width:  r.Width,
		Height: r.Height,
		Values: values,
	}, nil
}
