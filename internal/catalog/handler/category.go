package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/httputil"
)

func (h *Handler) registerCategoryRoutes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.Post("/", h.createCategory)
		r.Put("/", h.updateCategory)
		r.Get("/{id}", h.getCategory)
		r.Delete("/{id}", h.deleteCategory)
		r.Delete("/{id}/soft", h.softDeleteCategory)
		r.Post("/{id}/restore", h.restoreCategory)
	})
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCategoryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	category, err := h.catalog.CreateCategory(r.Context(), &req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, category)
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := id.ParseCategoryID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	category, err := h.catalog.GetCategory(r.Context(), categoryID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, category)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	filter := models.CategoryFilter{
		IncludeDeleted: queryBool(r, "includeDeleted"),
		Page:           pageParams(r),
	}
	if raw := r.URL.Query().Get("registryHolderId"); raw != "" {
		holderID, err := id.ParseHolderID(raw)
		if err != nil {
			h.respondErr(w, r, err)
			return
		}
		filter.RegistryHolderID = &holderID
	}
	if raw := r.URL.Query().Get("parentId"); raw != "" {
		parentID, err := id.ParseCategoryID(raw)
		if err != nil {
			h.respondErr(w, r, err)
			return
		}
		filter.ParentID = &parentID
	}
	categories, err := h.catalog.ListCategories(r.Context(), filter)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, categories)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCategoryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	category, err := h.catalog.UpdateCategory(r.Context(), &req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, category)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := id.ParseCategoryID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	if err := h.catalog.DeleteCategory(r.Context(), categoryID); err != nil {
		h.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) softDeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := id.ParseCategoryID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	category, err := h.catalog.SoftDeleteCategory(r.Context(), categoryID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, category)
}

func (h *Handler) restoreCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := id.ParseCategoryID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	category, err := h.catalog.RestoreCategory(r.Context(), categoryID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, category)
}
