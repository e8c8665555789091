package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vfg2006/sales-dashboard/internal/metrics"
)

// MetricsMiddleware registra contagem e latência por rota.
// path deve ser o padrão da rota (ex.: /v1/dashboard/months/:month), não a URL concreta.
func MetricsMiddleware(m *metrics.Metrics, path string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newStatusRecorder(w)
			start := time.Now()

			next.ServeHTTP(rec, r)

			m.RecordHTTPRequest(r.Method, path, strconv.Itoa(rec.statusCode), time.Since(start))
		})
	}
}
