package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vfg2006/sales-dashboard/internal/api/handler/router"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Dashboard(services DashboardServices) []router.Route {
	return []router.Route{
		{
			Path:    "/",
			Method:  http.MethodGet,
			Handler: DashboardPage(services),
		},
		{
			Path:    "/v1/dashboard",
			Method:  http.MethodGet,
			Handler: DashboardView(services),
		},
		{
			Path:    "/v1/dashboard/months",
			Method:  http.MethodGet,
			Handler: ListMonths(services),
		},
		{
			Path:    "/v1/dashboard/months/:month",
			Method:  http.MethodGet,
			Handler: GetMonthSales(services),
		},
		{
			Path:    "/v1/dataset/status",
			Method:  http.MethodGet,
			Handler: DatasetStatus(services),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/jobs/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}

// Metrics expõe os coletores do registry informado
func Metrics(gatherer prometheus.Gatherer) []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		},
	}
}
