package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/httputil"
)

func (h *Handler) registerHolderRoutes(r chi.Router) {
	r.Route("/registry-holders", func(r chi.Router) {
		r.Get("/", h.listRegistryHolders)
		r.Post("/", h.createRegistryHolder)
		r.Put("/", h.updateRegistryHolder)
		r.Get("/{id}", h.getRegistryHolder)
		r.Delete("/{id}", h.deleteRegistryHolder)
		r.Delete("/{id}/soft", h.softDeleteRegistryHolder)
		r.Post("/{id}/restore", h.restoreRegistryHolder)
	})
}

func (h *Handler) createRegistryHolder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRegistryHolderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	holder, err := h.catalog.CreateRegistryHolder(r.Context(), &req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, holder)
}

func (h *Handler) getRegistryHolder(w http.ResponseWriter, r *http.Request) {
	holderID, err := id.ParseHolderID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	holder, err := h.catalog.GetRegistryHolder(r.Context(), holderID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, holder)
}

// listRegistryHolders lists holders. With a telegramId query parameter it
// resolves that single holder instead; bots look users up this way.
func (h *Handler) listRegistryHolders(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("telegramId"); raw != "" {
		telegramID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.respondErr(w, r, dErrors.New(dErrors.CodeInvalidInput, "telegramId must be an integer"))
			return
		}
		holder, err := h.catalog.GetRegistryHolderByTelegramID(r.Context(), telegramID)
		if err != nil {
			h.respondErr(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, []*models.RegistryHolder{holder})
		return
	}

	holders, err := h.catalog.ListRegistryHolders(r.Context(), models.ListFilter{
		IncludeDeleted: queryBool(r, "includeDeleted"),
		Page:           pageParams(r),
	})
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, holders)
}

func (h *Handler) updateRegistryHolder(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateRegistryHolderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	holder, err := h.catalog.UpdateRegistryHolder(r.Context(), &req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, holder)
}

func (h *Handler) deleteRegistryHolder(w http.ResponseWriter, r *http.Request) {
	holderID, err := id.ParseHolderID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	if err := h.catalog.DeleteRegistryHolder(r.Context(), holderID); err != nil {
		h.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) softDeleteRegistryHolder(w http.ResponseWriter, r *http.Request) {
	holderID, err := id.ParseHolderID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	holder, err := h.catalog.SoftDeleteRegistryHolder(r.Context(), holderID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, holder)
}

func (h *Handler) restoreRegistryHolder(w http.ResponseWriter, r *http.Request) {
	holderID, err := id.ParseHolderID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	holder, err := h.catalog.RestoreRegistryHolder(r.Context(), holderID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, holder)
}
