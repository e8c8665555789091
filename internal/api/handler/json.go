package handler

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/sales-dashboard/internal/usecases/loading"
	"github.com/vfg2006/sales-dashboard/internal/usecases/presenting"
	"github.com/vfg2006/sales-dashboard/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, logger log.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WithError(err).Error("Erro ao codificar resposta")
	}
}

// writeDashboardError traduz erros de carga e de seleção para o formato da API
func writeDashboardError(w http.ResponseWriter, logger log.Logger, err error) {
	var dsErr *loading.DatasetError

	switch {
	case errors.Is(err, presenting.ErrInvalidMonth):
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Mês inválido, use o formato YYYY-MM", nil)
	case errors.Is(err, presenting.ErrMonthNotFound):
		apiErrors.WriteError(w, apiErrors.ErrMonthNotFound, "Mês não encontrado no dataset", nil)
	case errors.As(err, &dsErr):
		logger.WithError(err).Error("Dataset indisponível")
		apiErrors.WriteError(w, dsErr.Code, "Não foi possível carregar o dataset", map[string]string{"source": dsErr.Source})
	default:
		logger.WithError(err).Error("Erro ao montar o painel")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao montar o painel", nil)
	}
}
