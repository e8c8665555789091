package handler

import (
	"bytes"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/sales-dashboard/internal/domain"
	"github.com/vfg2006/sales-dashboard/internal/metrics"
	"github.com/vfg2006/sales-dashboard/internal/usecases/aggregating"
	"github.com/vfg2006/sales-dashboard/internal/usecases/loading"
	"github.com/vfg2006/sales-dashboard/internal/usecases/presenting"
	"github.com/vfg2006/sales-dashboard/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard/pkg/log"
	"github.com/vfg2006/sales-dashboard/pkg/utils"
)

const (
	formatHTML = "html"
	formatJSON = "json"
)

// DashboardServices contém as dependências das rotas do painel
type DashboardServices struct {
	Loader    loading.DatasetLoader
	Presenter presenting.DashboardService
	Page      *presenting.PageRenderer
	Metrics   *metrics.Metrics
}

type MonthsResponse struct {
	Months []string `json:"months"`
}

type MonthSalesResponse struct {
	Month   string  `json:"month"`
	Sales   float64 `json:"sales"`
	Display string  `json:"display"`
}

func (s DashboardServices) render(r *http.Request) (*domain.View, error) {
	table, err := s.Loader.Get(r.Context())
	if err != nil {
		return nil, err
	}

	return s.Presenter.Render(table, presenting.Selection{Month: r.URL.Query().Get("month")})
}

// DashboardPage devolve o painel em HTML
func DashboardPage(services DashboardServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		view, err := services.render(r)
		if err != nil {
			services.Metrics.RecordRender(formatHTML, "error")
			writeDashboardError(w, logger, err)
			return
		}

		var buf bytes.Buffer
		if err := services.Page.WriteHTML(&buf, view); err != nil {
			services.Metrics.RecordRender(formatHTML, "error")
			logger.WithError(err).Error("dashboard: erro ao renderizar HTML")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao renderizar o painel", nil)
			return
		}

		services.Metrics.RecordRender(formatHTML, "success")
		logger.WithFields(log.Fields{
			"month":   view.MonthSelector.Selected,
			"view_id": view.ID,
		}).Debug("dashboard: página renderizada")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := buf.WriteTo(w); err != nil {
			logger.WithError(err).Warn("dashboard: erro ao enviar resposta")
		}
	}
}

// DashboardView devolve a mesma descrição do painel em JSON
func DashboardView(services DashboardServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		view, err := services.render(r)
		if err != nil {
			services.Metrics.RecordRender(formatJSON, "error")
			writeDashboardError(w, logger, err)
			return
		}

		services.Metrics.RecordRender(formatJSON, "success")
		writeJSON(w, logger, http.StatusOK, view)
	}
}

// ListMonths retorna os meses disponíveis para o seletor
func ListMonths(services DashboardServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		table, err := services.Loader.Get(r.Context())
		if err != nil {
			writeDashboardError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, MonthsResponse{Months: table.YearMonths()})
	}
}

// GetMonthSales retorna a venda somada de um mês
func GetMonthSales(services DashboardServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		month := httprouter.ParamsFromContext(r.Context()).ByName("month")

		if !domain.IsYearMonth(month) {
			writeDashboardError(w, logger, presenting.ErrInvalidMonth)
			return
		}

		table, err := services.Loader.Get(r.Context())
		if err != nil {
			writeDashboardError(w, logger, err)
			return
		}

		sales, ok := aggregating.MonthlyValue(aggregating.MonthlySales(table), month)
		if !ok {
			writeDashboardError(w, logger, presenting.ErrMonthNotFound)
			return
		}

		writeJSON(w, logger, http.StatusOK, MonthSalesResponse{
			Month:   month,
			Sales:   sales,
			Display: utils.FormatCurrency(sales, 2),
		})
	}
}

// DatasetStatus retorna o estado do dataset em memória
func DatasetStatus(services DashboardServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, log.ForContext(r.Context()), http.StatusOK, services.Loader.Status())
	}
}
