package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smakki/FinanceManager-sub000/pkg/platform/httputil"
)

type syncStatusResponse struct {
	Replicas map[string]int `json:"replicas"`
}

func (h *Handler) registerSyncRoutes(r chi.Router) {
	r.Get("/sync/status", h.syncStatus)
}

// syncStatus reports per-kind replica row counts, so an operator can tell
// how much catalog data the sync job has delivered locally.
func (h *Handler) syncStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.ReplicaCounts(r.Context())
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, syncStatusResponse{Replicas: counts})
}
