package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/httputil"
)

func (h *Handler) registerAccountRoutes(r chi.Router) {
	r.Route("/accounts", func(r chi.Router) {
		r.Get("/", h.listAccounts)
		r.Post("/", h.createAccount)
		r.Put("/", h.updateAccount)
		r.Get("/{id}", h.getAccount)
		r.Delete("/{id}", h.deleteAccount)
		r.Delete("/{id}/soft", h.softDeleteAccount)
		r.Post("/{id}/restore", h.restoreAccount)
		r.Post("/{id}/default", h.setDefaultAccount)
		r.Post("/{id}/default/unset", h.unsetDefaultAccount)
	})
}

// unsetDefaultRequest names the account that takes over the default flag.
type unsetDefaultRequest struct {
	ReplacementAccountID id.AccountID `json:"replacementAccountId"`
}

func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	account, err := h.catalog.CreateAccount(r.Context(), &req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, account)
}

func (h *Handler) getAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := id.ParseAccountID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	account, err := h.catalog.GetAccount(r.Context(), accountID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, account)
}

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	filter := models.AccountFilter{
		IncludeDeleted:  queryBool(r, "includeDeleted"),
		IncludeArchived: queryBool(r, "includeArchived"),
		Page:            pageParams(r),
	}
	if raw := r.URL.Query().Get("registryHolderId"); raw != "" {
		holderID, err := id.ParseHolderID(raw)
		if err != nil {
			h.respondErr(w, r, err)
			return
		}
		filter.RegistryHolderID = &holderID
	}
	accounts, err := h.catalog.ListAccounts(r.Context(), filter)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, accounts)
}

func (h *Handler) updateAccount(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateAccountRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	account, err := h.catalog.UpdateAccount(r.Context(), &req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, account)
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := id.ParseAccountID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	if err := h.catalog.DeleteAccount(r.Context(), accountID); err != nil {
		h.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) softDeleteAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := id.ParseAccountID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	account, err := h.catalog.SoftDeleteAccount(r.Context(), accountID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, account)
}

func (h *Handler) restoreAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := id.ParseAccountID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	account, err := h.catalog.RestoreAccount(r.Context(), accountID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, account)
}

func (h *Handler) setDefaultAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := id.ParseAccountID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	account, err := h.catalog.SetDefaultAccount(r.Context(), accountID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, account)
}

func (h *Handler) unsetDefaultAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := id.ParseAccountID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	var req unsetDefaultRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	account, err := h.catalog.UnsetDefaultAccount(r.Context(), accountID, req.ReplacementAccountID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, account)
}
