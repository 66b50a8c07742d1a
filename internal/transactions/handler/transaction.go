package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smakki/FinanceManager-sub000/internal/transactions/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/httputil"
)

func (h *Handler) registerTransactionRoutes(r chi.Router) {
	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", h.listTransactions)
		r.Post("/", h.createTransaction)
		r.Put("/", h.updateTransaction)
		r.Get("/{id}", h.getTransaction)
		r.Delete("/{id}", h.deleteTransaction)
		r.Delete("/{id}/soft", h.softDeleteTransaction)
		r.Post("/{id}/restore", h.restoreTransaction)
	})
}

func (h *Handler) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTransactionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	transaction, err := h.svc.CreateTransaction(r.Context(), &req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, transaction)
}

func (h *Handler) getTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID, err := id.ParseTransactionID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	transaction, err := h.svc.GetTransaction(r.Context(), transactionID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, transaction)
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	filter := models.TransactionFilter{
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
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		categoryID, err := id.ParseCategoryID(raw)
		if err != nil {
			h.respondErr(w, r, err)
			return
		}
		filter.CategoryID = &categoryID
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
	transactions, err := h.svc.ListTransactions(r.Context(), filter)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, transactions)
}

func (h *Handler) updateTransaction(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateTransactionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	transaction, err := h.svc.UpdateTransaction(r.Context(), &req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, transaction)
}

func (h *Handler) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID, err := id.ParseTransactionID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	if err := h.svc.DeleteTransaction(r.Context(), transactionID); err != nil {
		h.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) softDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID, err := id.ParseTransactionID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	transaction, err := h.svc.SoftDeleteTransaction(r.Context(), transactionID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, transaction)
}

func (h *Handler) restoreTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID, err := id.ParseTransactionID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	transaction, err := h.svc.RestoreTransaction(r.Context(), transactionID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, transaction)
}
