package handlers

import (
	"log"
	"net/http"

	"estateBack/internal/analysis"
	"estateBack/internal/services"
)

type AnalysisHandler struct {
	Service  *services.AnalysisService
	ErrorLog *log.Logger
}

// Report serves one report kind. The endpoints take no parameters.
func (h *AnalysisHandler) Report(kind analysis.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := contextWithTimeout(r)
		defer cancel()

		report, err := h.Service.Report(ctx, kind)
		if err != nil {
			respondError(w, h.ErrorLog, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
