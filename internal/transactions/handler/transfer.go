package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smakki/FinanceManager-sub000/internal/transactions/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/httputil"
)

func (h *Handler) registerTransferRoutes(r chi.Router) {
	r.Route("/transfers", func(r chi.Router) {
		r.Get("/", h.listTransfers)
		r.Post("/", h.createTransfer)
		r.Put("/", h.updateTransfer)
		r.Get("/{id}", h.getTransfer)
		r.Delete("/{id}", h.deleteTransfer)
		r.Delete("/{id}/soft", h.softDeleteTransfer)
		r.Post("/{id}/restore", h.restoreTransfer)
	})
}

func (h *Handler) createTransfer(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTransferRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	transfer, err := h.svc.CreateTransfer(r.Context(), &req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, transfer)
}

func (h *Handler) getTransfer(w http.ResponseWriter, r *http.Request) {
	transferID, err := id.ParseTransferID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	transfer, err := h.svc.GetTransfer(r.Context(), transferID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, transfer)
}

// listTransfers filters by accountId against either side of the transfer.
func (h *Handler) listTransfers(w http.ResponseWriter, r *http.Request) {
	filter := models.TransferFilter{
		IncludeDeleted: queryBool(r, "includeDeleted"),
		Page:           pageParams(r),
	}
	if raw := r.URL.Query().Get("accountId"); raw != "" {
		accountID, err := id.ParseAccountID(raw)
		if err != nil {
			h.respondErr(w, r, err)
			return
		}
		filter.AccountID = &accountID
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := parseDateParam("from", raw)
		if err != nil {
			h.respondErr(w, r, err)
			return
		}
		filter.From = &from
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := parseDateParam("to", raw)
		if err != nil {
			h.respondErr(w, r, err)
			return
		}
		filter.To = &to
	}
	transfers, err := h.svc.ListTransfers(r.Context(), filter)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, transfers)
}

func (h *Handler) updateTransfer(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateTransferRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	transfer, err := h.svc.UpdateTransfer(r.Context(), &req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, transfer)
}

func (h *Handler) deleteTransfer(w http.ResponseWriter, r *http.Request) {
	transferID, err := id.ParseTransferID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	if err := h.svc.DeleteTransfer(r.Context(), transferID); err != nil {
		h.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) softDeleteTransfer(w http.ResponseWriter, r *http.Request) {
	transferID, err := id.ParseTransferID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	transfer, err := h.svc.SoftDeleteTransfer(r.Context(), transferID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, transfer)
}

func (h *Handler) restoreTransfer(w http.ResponseWriter, r *http.Request) {
	transferID, err := id.ParseTransferID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	transfer, err := h.svc.RestoreTransfer(r.Context(), transferID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, transfer)
}
