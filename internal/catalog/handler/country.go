package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/httputil"
)

func (h *Handler) registerCountryRoutes(r chi.Router) {
	r.Route("/countries", func(r chi.Router) {
		r.Get("/", h.listCountries)
		r.Post("/", h.createCountry)
		r.Put("/", h.updateCountry)
		r.Get("/{id}", h.getCountry)
		r.Delete("/{id}", h.deleteCountry)
		r.Delete("/{id}/soft", h.softDeleteCountry)
		r.Post("/{id}/restore", h.restoreCountry)
	})
}

func (h *Handler) createCountry(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCountryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	country, err := h.catalog.CreateCountry(r.Context(), &req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, country)
}

func (h *Handler) getCountry(w http.ResponseWriter, r *http.Request) {
	countryID, err := id.ParseCountryID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	country, err := h.catalog.GetCountry(r.Context(), countryID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, country)
}

func (h *Handler) listCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.catalog.ListCountries(r.Context(), models.ListFilter{
		IncludeDeleted: queryBool(r, "includeDeleted"),
		Page:           pageParams(r),
	})
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, countries)
}

func (h *Handler) updateCountry(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCountryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	country, err := h.catalog.UpdateCountry(r.Context(), &req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, country)
}

func (h *Handler) deleteCountry(w http.ResponseWriter, r *http.Request) {
	countryID, err := id.ParseCountryID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	if err := h.catalog.DeleteCountry(r.Context(), countryID); err != nil {
		h.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) softDeleteCountry(w http.ResponseWriter, r *http.Request) {
	countryID, err := id.ParseCountryID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	country, err := h.catalog.SoftDeleteCountry(r.Context(), countryID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, country)
}

func (h *Handler) restoreCountry(w http.ResponseWriter, r *http.Request) {
	countryID, err := id.ParseCountryID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	country, err := h.catalog.RestoreCountry(r.Context(), countryID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, country)
}
