package domain

import "time"

type ChartKind string

const (
	ChartKindLine    ChartKind = "line"
	ChartKindBar     ChartKind = "bar"
	ChartKindBarH    ChartKind = "bar_horizontal"
	ChartKindPie     ChartKind = "pie"
	ChartKindScatter ChartKind = "scatter"
)

// View é a descrição completa de uma renderização do painel.
// É recalculada a cada interação e descartada em seguida.
type View struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	GeneratedAt   time.Time     `json:"generated_at"`
	Empty         bool          `json:"empty"`
	KPIs          KPIs          `json:"kpis"`
	Cards         []MetricCard  `json:"cards"`
	MonthSelector MonthSelector `json:"month_selector"`
	Charts        []Chart       `json:"charts"`
	Scatter       ScatterChart  `json:"scatter"`
}

type MetricCard struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

// MonthSelector representa o dropdown de meses e o valor exibido para o mês escolhido
type MonthSelector struct {
	Label    string   `json:"label"`
	Options  []string `json:"options"`
	Selected string   `json:"selected"`
	Sales    float64  `json:"sales"`
	Display  string   `json:"display"`
}

type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Chart struct {
	ID        string       `json:"id"`
	Kind      ChartKind    `json:"kind"`
	Section   string       `json:"section,omitempty"`
	Title     string       `json:"title"`
	XLabel    string       `json:"x_label,omitempty"`
	YLabel    string       `json:"y_label,omitempty"`
	TickAngle int          `json:"tick_angle,omitempty"`
	Points    []ChartPoint `json:"points"`
}

type ScatterPoint struct {
	Sales    float64 `json:"sales"`
	Profit   float64 `json:"profit"`
	Category string  `json:"category"`
	Quantity int     `json:"quantity"`
	Hover    string  `json:"hover"`
}

type ScatterChart struct {
	ID         string         `json:"id"`
	Section    string         `json:"section"`
	Title      string         `json:"title"`
	XLabel     string         `json:"x_label"`
	YLabel     string         `json:"y_label"`
	Categories []string       `json:"categories"`
	Points     []ScatterPoint `json:"points"`
}

// DatasetStatus descreve o estado atual do dataset em memória
type DatasetStatus struct {
	Loaded      bool       `json:"loaded"`
	Source      string     `json:"source"`
	Rows        int        `json:"rows"`
	DroppedRows int        `json:"dropped_rows"`
	Months      int        `json:"months"`
	LoadedAt    *time.Time `json:"loaded_at,omitempty"`
	Loads       int        `json:"loads"`
}
