package presenting

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard/internal/domain"
	"github.com/vfg2006/sales-dashboard/pkg/log"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/dashboard.html"))

type renderedChart struct {
	Chart domain.Chart
	SVG   template.HTML
}

type legendItem struct {
	Category string
	Color    string
}

type pageData struct {
	View       *domain.View
	Charts     []renderedChart
	ScatterSVG template.HTML
	Legend     []legendItem
}

// PageRenderer monta a página HTML completa a partir de uma view
type PageRenderer struct {
	charts *ChartRenderer
}

func NewPageRenderer(charts *ChartRenderer) *PageRenderer {
	if charts == nil {
		charts = NewChartRenderer()
	}
	return &PageRenderer{charts: charts}
}

func (p *PageRenderer) WriteHTML(w io.Writer, view *domain.View) error {
	if view == nil {
		return errors.New("view nula")
	}

	data := pageData{
		View:       view,
		Charts:     make([]renderedChart, 0, len(view.Charts)),
		ScatterSVG: scatterSVG(view.Scatter, p.charts.Width),
		Legend:     make([]legendItem, 0, len(view.Scatter.Categories)),
	}

	for _, c := range view.Charts {
		svg, err := p.charts.RenderSVG(c)
		if err != nil {
			// gráfico sem dados desenháveis vira um aviso; o resto da página continua
			if !errors.Is(err, ErrNoChartData) {
				log.L.WithError(err).WithField("chart", c.ID).Warn("Falha ao desenhar gráfico")
			}
			svg = template.HTML(`<p class="muted">Sem dados.</p>`)
		}
		data.Charts = append(data.Charts, renderedChart{Chart: c, SVG: svg})
	}

	for _, c := range view.Scatter.Categories {
		data.Legend = append(data.Legend, legendItem{Category: c, Color: CategoryColor(view.Scatter.Categories, c)})
	}

	// renderiza em buffer para não enviar meia página em caso de erro
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return errors.Wrap(err, "erro ao executar o template do painel")
	}

	_, err := buf.WriteTo(w)
	return err
}
