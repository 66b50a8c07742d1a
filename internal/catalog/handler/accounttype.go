package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/httputil"
)

func (h *Handler) registerAccountTypeRoutes(r chi.Router) {
	r.Route("/account-types", func(r chi.Router) {
		r.Get("/", h.listAccountTypes)
		r.Post("/", h.createAccountType)
		r.Put("/", h.updateAccountType)
		r.Get("/{id}", h.getAccountType)
		r.Delete("/{id}", h.deleteAccountType)
		r.Delete("/{id}/soft", h.softDeleteAccountType)
		r.Post("/{id}/restore", h.restoreAccountType)
	})
}

func (h *Handler) createAccountType(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountTypeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	accType, err := h.catalog.CreateAccountType(r.Context(), &req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, accType)
}

func (h *Handler) getAccountType(w http.ResponseWriter, r *http.Request) {
	typeID, err := id.ParseAccountTypeID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	accType, err := h.catalog.GetAccountType(r.Context(), typeID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, accType)
}

func (h *Handler) listAccountTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.catalog.ListAccountTypes(r.Context(), models.ListFilter{
		IncludeDeleted: queryBool(r, "includeDeleted"),
		Page:           pageParams(r),
	})
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, types)
}

func (h *Handler) updateAccountType(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateAccountTypeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	accType, err := h.catalog.UpdateAccountType(r.Context(), &req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, accType)
}

func (h *Handler) deleteAccountType(w http.ResponseWriter, r *http.Request) {
	typeID, err := id.ParseAccountTypeID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	if err := h.catalog.DeleteAccountType(r.Context(), typeID); err != nil {
		h.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) softDeleteAccountType(w http.ResponseWriter, r *http.Request) {
	typeID, err := id.ParseAccountTypeID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	accType, err := h.catalog.SoftDeleteAccountType(r.Context(), typeID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, accType)
}

func (h *Handler) restoreAccountType(w http.ResponseWriter, r *http.Request) {
	typeID, err := id.ParseAccountTypeID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	accType, err := h.catalog.RestoreAccountType(r.Context(), typeID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, accType)
}
