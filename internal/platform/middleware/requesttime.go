package middleware

import (
	"net/http"
	"time"

	"github.com/smakki/FinanceManager-sub000/pkg/requestcontext"
)

// RequestTime captures the current time at the start of the request and
// stores it in the context. All timestamps written during one request then
// agree, so a multi-entity mutation gets one consistent UpdatedAt.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
