// Package handler exposes the catalog over HTTP. Routes decode and delegate;
// every rule lives in the service layer, every error leaves as problem
// details.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/service"
	"github.com/smakki/FinanceManager-sub000/internal/platform/middleware"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/httputil"
)

// Handler serves the catalog resources under /api/v1.
type Handler struct {
	logger  *slog.Logger
	catalog *service.Service
}

func New(catalog *service.Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, catalog: catalog}
}

// Register mounts the catalog routes. Middleware is the caller's concern.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		h.registerHolderRoutes(r)
		h.registerCountryRoutes(r)
		h.registerBankRoutes(r)
		h.registerCurrencyRoutes(r)
		h.registerAccountTypeRoutes(r)
		h.registerAccountRoutes(r)
		h.registerCategoryRoutes(r)
		h.registerRateRoutes(r)
	})
}

// respondErr logs the failure and renders it as problem details. Client
// errors log at warn, internal ones at error.
func (h *Handler) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	attrs := []any{
		"request_id", middleware.GetRequestID(ctx),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err.Error(),
	}
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "request failed", attrs...)
	} else {
		h.logger.WarnContext(ctx, "request rejected", attrs...)
	}
	httputil.WriteError(w, r, err)
}

// pageParams reads the Page/ItemsPerPage query parameters. Unparseable
// values fall back to the defaults applied by PageParams.Normalize.
func pageParams(r *http.Request) id.PageParams {
	var p id.PageParams
	if raw := r.URL.Query().Get("Page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			p.Page = n
		}
	}
	if raw := r.URL.Query().Get("ItemsPerPage"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			p.ItemsPerPage = n
		}
	}
	return p
}

func queryBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}
