package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/httputil"
)

func (h *Handler) registerCurrencyRoutes(r chi.Router) {
	r.Route("/currencies", func(r chi.Router) {
		r.Get("/", h.listCurrencies)
		r.Post("/", h.createCurrency)
		r.Put("/", h.updateCurrency)
		r.Get("/{id}", h.getCurrency)
		r.Delete("/{id}", h.deleteCurrency)
		r.Delete("/{id}/soft", h.softDeleteCurrency)
		r.Post("/{id}/restore", h.restoreCurrency)
	})
}

func (h *Handler) createCurrency(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCurrencyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	currency, err := h.catalog.CreateCurrency(r.Context(), &req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, currency)
}

func (h *Handler) getCurrency(w http.ResponseWriter, r *http.Request) {
	currencyID, err := id.ParseCurrencyID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	currency, err := h.catalog.GetCurrency(r.Context(), currencyID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, currency)
}

func (h *Handler) listCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.catalog.ListCurrencies(r.Context(), models.ListFilter{
		IncludeDeleted: queryBool(r, "includeDeleted"),
		Page:           pageParams(r),
	})
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, currencies)
}

func (h *Handler) updateCurrency(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCurrencyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	currency, err := h.catalog.UpdateCurrency(r.Context(), &req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, currency)
}

func (h *Handler) deleteCurrency(w http.ResponseWriter, r *http.Request) {
	currencyID, err := id.ParseCurrencyID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	if err := h.catalog.DeleteCurrency(r.Context(), currencyID); err != nil {
		h.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) softDeleteCurrency(w http.ResponseWriter, r *http.Request) {
	currencyID, err := id.ParseCurrencyID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	currency, err := h.catalog.SoftDeleteCurrency(r.Context(), currencyID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, currency)
}

func (h *Handler) restoreCurrency(w http.ResponseWriter, r *http.Request) {
	currencyID, err := id.ParseCurrencyID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	currency, err := h.catalog.RestoreCurrency(r.Context(), currencyID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, currency)
}
