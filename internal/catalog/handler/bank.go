package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/httputil"
)

func (h *Handler) registerBankRoutes(r chi.Router) {
	r.Route("/banks", func(r chi.Router) {
		r.Get("/", h.listBanks)
		r.Post("/", h.createBank)
		r.Put("/", h.updateBank)
		r.Get("/{id}", h.getBank)
		r.Delete("/{id}", h.deleteBank)
		r.Delete("/{id}/soft", h.softDeleteBank)
		r.Post("/{id}/restore", h.restoreBank)
	})
}

func (h *Handler) createBank(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBankRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	bank, err := h.catalog.CreateBank(r.Context(), &req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, bank)
}

func (h *Handler) getBank(w http.ResponseWriter, r *http.Request) {
	bankID, err := id.ParseBankID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	bank, err := h.catalog.GetBank(r.Context(), bankID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, bank)
}

func (h *Handler) listBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.catalog.ListBanks(r.Context(), models.ListFilter{
		IncludeDeleted: queryBool(r, "includeDeleted"),
		Page:           pageParams(r),
	})
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, banks)
}

func (h *Handler) updateBank(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateBankRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	bank, err := h.catalog.UpdateBank(r.Context(), &req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, bank)
}

func (h *Handler) deleteBank(w http.ResponseWriter, r *http.Request) {
	bankID, err := id.ParseBankID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	if err := h.catalog.DeleteBank(r.Context(), bankID); err != nil {
		h.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) softDeleteBank(w http.ResponseWriter, r *http.Request) {
	bankID, err := id.ParseBankID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	bank, err := h.catalog.SoftDeleteBank(r.Context(), bankID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, bank)
}

func (h *Handler) restoreBank(w http.ResponseWriter, r *http.Request) {
	bankID, err := id.ParseBankID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	bank, err := h.catalog.RestoreBank(r.Context(), bankID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, bank)
}
