package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/offsync/reconciler/internal/logger"
	"github.com/offsync/reconciler/internal/utils"
	"github.com/offsync/reconciler/models"
)

// reconcileBatch handles POST /api/sync/{table}: it decodes the batch,
// hands it to the sync service, and answers with either the full ordered
// mapping list or a single error object, never both.
func (h *Handler) reconcileBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	table := chi.URLParam(r, "table")

	var syncRequest models.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&syncRequest); err != nil {
		log.Err(err).Str("func", "*Handler.reconcileBatch").Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Error: "Invalid JSON was passed"}, http.StatusBadRequest)
		return
	}

	results, err := h.services.SyncService.ReconcileBatch(ctx, table, syncRequest)
	if err != nil {
		log.Error().Str("func", "*Handler.reconcileBatch").Str("table", table).Str("cause", err.Error()).Msg("error reconciling batch")
		utils.WriteJSON(w, models.ErrorResponse{Error: err.Error()}, statusFromError(err))
		return
	}

	response := models.SyncResponse{
		Results: results,
		Length:  len(results),
	}

	utils.WriteJSON(w, response, http.StatusOK)
}
