package presenting

import (
	"fmt"
	"html/template"
	"math"
	"strings"

	"github.com/vfg2006/sales-dashboard/internal/domain"
	"github.com/vfg2006/sales-dashboard/pkg/utils"
)

// paleta usada para a cor por categoria no gráfico de dispersão
var categoryPalette = []string{"#636efa", "#ef553b", "#00cc96", "#ab63fa", "#ffa15a", "#19d3f3", "#ff6692"}

const (
	scatterHeight = 520.0
	scatterPad    = 56.0
	minBubble     = 2.0
	maxBubble     = 14.0
	hbarRowHeight = 26.0
	hbarLabelW    = 160.0
)

func scale(v, min, max, a, b float64) float64 {
	if max == min {
		return (a + b) / 2
	}
	return a + (v-min)*(b-a)/(max-min)
}

func esc(s string) string {
	return template.HTMLEscapeString(s)
}

// CategoryColor devolve a cor fixa de uma categoria na legenda
func CategoryColor(categories []string, category string) string {
	for i, c := range categories {
		if c == category {
			return categoryPalette[i%len(categoryPalette)]
		}
	}
	return "#999999"
}

// horizontalBarSVG desenha barras horizontais com a maior barra no topo
func horizontalBarSVG(c domain.Chart, width int) template.HTML {
	if len(c.Points) == 0 {
		return template.HTML(`<p class="muted">Sem dados.</p>`)
	}

	w := float64(width)
	h := float64(len(c.Points))*hbarRowHeight + scatterPad
	maxV := 0.0
	for _, p := range c.Points {
		maxV = math.Max(maxV, p.Value)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" class="chart">`, w, h)
	fmt.Fprintf(&b, `<text x="%.0f" y="20" class="title">%s</text>`, w/2, esc(c.Title))

	barArea := w - hbarLabelW - scatterPad
	for i, p := range c.Points {
		y := 32 + float64(i)*hbarRowHeight
		bw := 0.0
		if p.Value > 0 {
			bw = scale(p.Value, 0, maxV, 0, barArea)
		}
		fmt.Fprintf(&b, `<text x="%.0f" y="%.1f" text-anchor="end" class="label">%s</text>`, hbarLabelW-6, y+hbarRowHeight/2+4, esc(p.Label))
		fmt.Fprintf(&b, `<rect x="%.0f" y="%.1f" width="%.1f" height="%.1f" fill="%s"><title>%s: %s</title></rect>`,
			hbarLabelW, y+3, bw, hbarRowHeight-6, categoryPalette[0], esc(p.Label), esc(utils.FormatCurrency(p.Value, 2)))
	}
	fmt.Fprintf(&b, `<text x="%.0f" y="%.0f" class="axis">%s</text>`, hbarLabelW+barArea/2, h-8, esc(c.XLabel))
	b.WriteString(`</svg>`)

	return template.HTML(b.String())
}

// scatterSVG desenha um círculo por linha, com cor por categoria, raio pela quantidade
// e o nome do produto no <title> para o hover
func scatterSVG(s domain.ScatterChart, width int) template.HTML {
	if len(s.Points) == 0 {
		return template.HTML(`<p class="muted">Sem dados.</p>`)
	}

	first := s.Points[0]
	minX, maxX := first.Sales, first.Sales
	minY, maxY := first.Profit, first.Profit
	minQ, maxQ := first.Quantity, first.Quantity
	for _, p := range s.Points {
		minX, maxX = math.Min(minX, p.Sales), math.Max(maxX, p.Sales)
		minY, maxY = math.Min(minY, p.Profit), math.Max(maxY, p.Profit)
		if p.Quantity < minQ {
			minQ = p.Quantity
		}
		if p.Quantity > maxQ {
			maxQ = p.Quantity
		}
	}

	w := float64(width)
	h := scatterHeight

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" class="chart">`, w, h)
	fmt.Fprintf(&b, `<text x="%.0f" y="20" class="title">%s</text>`, w/2, esc(s.Title))
	fmt.Fprintf(&b, `<line x1="%.0f" y1="%.0f" x2="%.0f" y2="%.0f" stroke="#888"/>`, scatterPad, h-scatterPad, w-scatterPad, h-scatterPad)
	fmt.Fprintf(&b, `<line x1="%.0f" y1="%.0f" x2="%.0f" y2="%.0f" stroke="#888"/>`, scatterPad, scatterPad, scatterPad, h-scatterPad)

	for _, p := range s.Points {
		cx := scale(p.Sales, minX, maxX, scatterPad, w-scatterPad)
		cy := h - scale(p.Profit, minY, maxY, scatterPad, h-scatterPad)
		r := scale(float64(p.Quantity), float64(minQ), float64(maxQ), minBubble, maxBubble)
		fmt.Fprintf(&b,
			`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="0.6"><title>%s&#10;Sales: %s&#10;Profit: %s&#10;Quantity: %d</title></circle>`,
			cx, cy, r, CategoryColor(s.Categories, p.Category),
			esc(p.Hover), esc(utils.FormatCurrency(p.Sales, 2)), esc(utils.FormatCurrency(p.Profit, 2)), p.Quantity)
	}

	fmt.Fprintf(&b, `<text x="%.0f" y="%.0f" class="axis">%s</text>`, w/2, h-16, esc(s.XLabel))
	fmt.Fprintf(&b, `<text x="16" y="%.0f" class="axis" transform="rotate(-90 16 %.0f)">%s</text>`, h/2, h/2, esc(s.YLabel))
	b.WriteString(`</svg>`)

	return template.HTML(b.String())
}
