package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/smakki/FinanceManager-sub000/pkg/requestcontext"
)

const requestIDHeader = "X-Request-Id"

// RequestID assigns every request an identifier, honoring one supplied by the
// caller so IDs propagate across service boundaries. The ID is echoed in the
// response header and stored in the context for logging and error bodies.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request identifier from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
