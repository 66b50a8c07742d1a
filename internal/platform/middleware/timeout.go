package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout cancels the request context after d. In-flight queries abort
// through the context; the handler surfaces the cancellation as a timeout
// error.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
