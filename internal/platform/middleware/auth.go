package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/httputil"
)

// TokenValidator checks a bearer token issued to a sibling service.
type TokenValidator interface {
	ValidateToken(tokenString string) (*ServiceClaims, error)
}

// ServiceClaims identifies the calling service.
type ServiceClaims struct {
	Service string
}

type contextKeyCaller struct{}

// ContextKeyCaller is exported for tests that inject a caller directly.
var ContextKeyCaller = contextKeyCaller{}

// GetCaller retrieves the authenticated calling service from the context.
func GetCaller(ctx context.Context) string {
	caller, ok := ctx.Value(ContextKeyCaller).(string)
	if !ok {
		return ""
	}
	return caller
}

// RequireServiceAuth enforces a bearer token on every request. A nil
// validator disables enforcement, which keeps local development and tests
// free of token plumbing.
func RequireServiceAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if validator == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok || token == "" {
				logger.WarnContext(r.Context(), "unauthorized request - missing token",
					"path", r.URL.Path,
					"request_id", GetRequestID(r.Context()),
				)
				httputil.WriteError(w, r, dErrors.New(dErrors.CodeUnauthorized, "missing or malformed Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized request - invalid token",
					"error", err,
					"path", r.URL.Path,
					"request_id", GetRequestID(r.Context()),
				)
				httputil.WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyCaller, claims.Service)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
