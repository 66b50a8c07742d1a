// Package handler exposes transactions and transfers over HTTP. Routes
// decode and delegate; every rule lives in the service layer, every error
// leaves as problem details.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/smakki/FinanceManager-sub000/internal/platform/middleware"
	"github.com/smakki/FinanceManager-sub000/internal/transactions/service"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/httputil"
)

// Handler serves the transactions resources under /api/v1.
type Handler struct {
	logger *slog.Logger
	svc    *service.Service
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, svc: svc}
}

// Register mounts the transactions routes. Middleware is the caller's concern.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		h.registerTransactionRoutes(r)
		h.registerTransferRoutes(r)
		h.registerSyncRoutes(r)
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
