package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contém os coletores Prometheus do painel
type Metrics struct {
	// Dataset
	DatasetLoads        *prometheus.CounterVec // Cargas do dataset por status (success/failure)
	DatasetLoadDuration prometheus.Histogram   // Duração da carga em segundos
	DatasetRows         prometheus.Gauge       // Linhas mantidas após a limpeza
	DatasetDroppedRows  prometheus.Gauge       // Linhas descartadas por falta de CEP

	// Painel
	DashboardRenders *prometheus.CounterVec // Renderizações por formato (html/json) e status

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		DatasetLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dataset_loads_total",
				Help: "Total number of dataset loads by status",
			},
			[]string{"status"},
		),

		DatasetLoadDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dataset_load_duration_seconds",
				Help:    "Time spent fetching and parsing the dataset",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),

		DatasetRows: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "dataset_rows",
				Help: "Number of rows kept in the cleaned dataset",
			},
		),

		DatasetDroppedRows: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "dataset_dropped_rows",
				Help: "Number of rows dropped because the postal code was empty",
			},
		),

		DashboardRenders: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_renders_total",
				Help: "Total number of dashboard renders by format and status",
			},
			[]string{"format", "status"},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status code",
			},
			[]string{"method", "path", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
	}
}

// RecordDatasetLoad registra o resultado de uma carga do dataset
func (m *Metrics) RecordDatasetLoad(status string, duration time.Duration, rows, dropped int) {
	if m == nil {
		return
	}
	m.DatasetLoads.WithLabelValues(status).Inc()
	m.DatasetLoadDuration.Observe(duration.Seconds())
	if status == "success" {
		m.DatasetRows.Set(float64(rows))
		m.DatasetDroppedRows.Set(float64(dropped))
	}
}

func (m *Metrics) RecordRender(format, status string) {
	if m == nil {
		return
	}
	m.DashboardRenders.WithLabelValues(format, status).Inc()
}

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
