package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/sales-dashboard/internal/scheduler"
	"github.com/vfg2006/sales-dashboard/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard/pkg/log"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeDatasetRefresh = "dataset-refresh"
)

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	DatasetRefreshService *scheduler.DatasetRefreshService
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		switch cronType {
		case CronJobTypeDatasetRefresh:
			if services.DatasetRefreshService == nil {
				apiErrors.WriteError(w, apiErrors.ErrJobUnavailable, "Serviço de recarga do dataset não disponível", nil)
				return
			}

			started := services.DatasetRefreshService.TriggerManualSync()
			message := "Cron job iniciada com sucesso"
			if !started {
				message = "Cron job já em andamento"
			}

			logger.WithField("type", cronType).Info(message)
			writeJSON(w, logger, http.StatusAccepted, map[string]any{
				"message": message,
				"type":    cronType,
				"started": started,
			})
		default:
			apiErrors.WriteError(w, apiErrors.ErrUnknownJob, "Tipo de cron job inválido. Valores aceitos: "+CronJobTypeDatasetRefresh, nil)
		}
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		if services.DatasetRefreshService != nil {
			status[CronJobTypeDatasetRefresh] = services.DatasetRefreshService.GetStatus()
		}

		writeJSON(w, log.ForContext(r.Context()), http.StatusOK, status)
	}
}
