package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/httputil"
)

// Exchange rates are corrections-only data, so they carry no soft-delete
// lifecycle. A wrong quote is fixed in place or removed outright.
func (h *Handler) registerRateRoutes(r chi.Router) {
	r.Route("/exchange-rates", func(r chi.Router) {
		r.Get("/", h.listExchangeRates)
		r.Post("/", h.createExchangeRate)
		r.Put("/", h.updateExchangeRate)
		r.Get("/{id}", h.getExchangeRate)
		r.Delete("/{id}", h.deleteExchangeRate)
	})
}

func (h *Handler) createExchangeRate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateExchangeRateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	rate, err := h.catalog.CreateExchangeRate(r.Context(), &req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, rate)
}

func (h *Handler) getExchangeRate(w http.ResponseWriter, r *http.Request) {
	rateID, err := id.ParseExchangeRateID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	rate, err := h.catalog.GetExchangeRate(r.Context(), rateID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rate)
}

func (h *Handler) listExchangeRates(w http.ResponseWriter, r *http.Request) {
	filter := models.ExchangeRateFilter{Page: pageParams(r)}
	if raw := r.URL.Query().Get("currencyId"); raw != "" {
		currencyID, err := id.ParseCurrencyID(raw)
		if err != nil {
			h.respondErr(w, r, err)
			return
		}
		filter.CurrencyID = &currencyID
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
	rates, err := h.catalog.ListExchangeRates(r.Context(), filter)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rates)
}

func (h *Handler) updateExchangeRate(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateExchangeRateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	rate, err := h.catalog.UpdateExchangeRate(r.Context(), &req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rate)
}

func (h *Handler) deleteExchangeRate(w http.ResponseWriter, r *http.Request) {
	rateID, err := id.ParseExchangeRateID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	if err := h.catalog.DeleteExchangeRate(r.Context(), rateID); err != nil {
		h.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseDateParam accepts either a full RFC 3339 timestamp or a bare
// yyyy-mm-dd date.
func parseDateParam(name, raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, dErrors.Newf(dErrors.CodeInvalidInput, "%s must be an RFC 3339 timestamp or yyyy-mm-dd date", name)
}
