package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard/internal/config"
	"github.com/vfg2006/sales-dashboard/internal/domain"
	"github.com/vfg2006/sales-dashboard/internal/metrics"
	"github.com/vfg2006/sales-dashboard/internal/scheduler"
	"github.com/vfg2006/sales-dashboard/internal/usecases/loading"
	"github.com/vfg2006/sales-dashboard/internal/usecases/loading/mocks"
	"github.com/vfg2006/sales-dashboard/internal/usecases/presenting"
	"github.com/vfg2006/sales-dashboard/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func salesTable() *domain.SalesTable {
	return &domain.SalesTable{
		Source:   "http:test",
		LoadedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Records: []domain.SalesRecord{
			{RowID: 0, YearMonth: "2017-01", Category: "Furniture", Region: "East", Segment: "Consumer", SubCategory: "Chairs", ProductName: "Chair", Sales: 100, Profit: 10, Quantity: 2, PostalCode: "10001"},
			{RowID: 1, YearMonth: "2017-01", Category: "Technology", Region: "West", Segment: "Corporate", SubCategory: "Phones", ProductName: "Phone", Sales: 50, Profit: 5, Quantity: 1, PostalCode: "90001"},
			{RowID: 2, YearMonth: "2017-02", Category: "Furniture", Region: "East", Segment: "Consumer", SubCategory: "Chairs", ProductName: "Chair", Sales: 20, Profit: 2, Quantity: 3, PostalCode: "10001"},
		},
	}
}

type testServer struct {
	handler  http.Handler
	loader   *mocks.MockDatasetLoader
	registry *prometheus.Registry
}

func newTestServer(t *testing.T) testServer {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockDatasetLoader(ctrl)

	cfg := &config.Config{}
	cfg.Server.CORSOrigins = []string{"http://localhost:3000"}
	cfg.DatasetRefresh.CronSchedule = "0 4 * * *"

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry)

	handler := NewHandler(cfg, Dependencies{
		Loader:                loader,
		Presenter:             presenting.NewDashboardService(),
		Page:                  presenting.NewPageRenderer(nil),
		DatasetRefreshService: scheduler.NewDatasetRefreshService(loader, cfg),
		Metrics:               m,
		Gatherer:              registry,
	})

	return testServer{handler: handler, loader: loader, registry: registry}
}

func (s testServer) do(method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestDashboardPage(t *testing.T) {
	srv := newTestServer(t)
	srv.loader.EXPECT().Get(gomock.Any()).Return(salesTable(), nil)

	rec := srv.do(http.MethodGet, "/?month=2017-01")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<strong>Sales in 2017-01:</strong> $150.00")
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}

func TestDashboardView_JSON(t *testing.T) {
	srv := newTestServer(t)
	srv.loader.EXPECT().Get(gomock.Any()).Return(salesTable(), nil)

	rec := srv.do(http.MethodGet, "/v1/dashboard?month=2017-02")
	require.Equal(t, http.StatusOK, rec.Code)

	var view domain.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "2017-02", view.MonthSelector.Selected)
	assert.Equal(t, "$20.00", view.MonthSelector.Display)
	assert.Equal(t, "$170", view.Cards[0].Text)
	assert.Len(t, view.Charts, 6)
}

func TestDashboard_Erros(t *testing.T) {
	tests := []struct {
		name   string
		target string
		setup  func(loader *mocks.MockDatasetLoader)
		status int
		code   string
	}{
		{
			name:   "Mês mal formatado",
			target: "/v1/dashboard?month=2017-1",
			setup: func(loader *mocks.MockDatasetLoader) {
				loader.EXPECT().Get(gomock.Any()).Return(salesTable(), nil)
			},
			status: http.StatusBadRequest,
			code:   apiErrors.ErrInvalidFormat,
		},
		{
			name:   "Mês ausente do dataset",
			target: "/?month=2030-01",
			setup: func(loader *mocks.MockDatasetLoader) {
				loader.EXPECT().Get(gomock.Any()).Return(salesTable(), nil)
			},
			status: http.StatusNotFound,
			code:   apiErrors.ErrMonthNotFound,
		},
		{
			name:   "Fonte do dataset indisponível",
			target: "/v1/dashboard",
			setup: func(loader *mocks.MockDatasetLoader) {
				loader.EXPECT().Get(gomock.Any()).Return(nil, loading.NewDatasetError(domain.ErrDatasetUnavailable, "http:test"))
			},
			status: http.StatusBadGateway,
			code:   apiErrors.ErrExternalService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			tt.setup(srv.loader)

			rec := srv.do(http.MethodGet, tt.target)

			assert.Equal(t, tt.status, rec.Code)
			var body apiErrors.APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestMonths(t *testing.T) {
	srv := newTestServer(t)
	srv.loader.EXPECT().Get(gomock.Any()).Return(salesTable(), nil).Times(3)

	rec := srv.do(http.MethodGet, "/v1/dashboard/months")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"months":["2017-01","2017-02"]}`, rec.Body.String())

	rec = srv.do(http.MethodGet, "/v1/dashboard/months/2017-01")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"month":"2017-01","sales":150,"display":"$150.00"}`, rec.Body.String())

	rec = srv.do(http.MethodGet, "/v1/dashboard/months/2019-05")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(http.MethodGet, "/v1/dashboard/months/maio")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDatasetStatus(t *testing.T) {
	srv := newTestServer(t)
	srv.loader.EXPECT().Status().Return(domain.DatasetStatus{Loaded: true, Source: "http:test", Rows: 3, Months: 2, Loads: 1})

	rec := srv.do(http.MethodGet, "/v1/dataset/status")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"loaded":true,"source":"http:test","rows":3,"dropped_rows":0,"months":2,"loads":1}`, rec.Body.String())
}

func TestCronJobs(t *testing.T) {
	srv := newTestServer(t)
	done := make(chan struct{})
	srv.loader.EXPECT().Refresh(gomock.Any()).DoAndReturn(func(ctx context.Context) (*domain.SalesTable, error) {
		defer close(done)
		return salesTable(), nil
	})

	rec := srv.do(http.MethodPost, "/v1/cron/jobs/dataset-refresh/run")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	<-done

	rec = srv.do(http.MethodPost, "/v1/cron/jobs/desconhecida/run")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(http.MethodGet, "/v1/cron/status")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"dataset-refresh"`)
}

func TestHealthcheckEMetricas(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/healthcheck").Code)

	rec := srv.do(http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))
}

func TestRotaInexistente(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodGet, "/v1/nao-existe")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), apiErrors.ErrRouteNotFound)
}
