package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
	"github.com/smakki/FinanceManager-sub000/pkg/requestcontext"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits detail", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		WriteError(w, r, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body ProblemDetails
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.Code != "internal_error" {
			t.Fatalf("expected code internal_error, got %q", body.Code)
		}
		if body.Detail != "" {
			t.Fatalf("expected detail to be omitted for internal errors, got %q", body.Detail)
		}
	})

	t.Run("not found includes detail and reason", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/accounts/42", nil)
		err := dErrors.New(dErrors.CodeNotFound, "account not found").WithReason("ACCOUNT_NOT_FOUND")
		WriteError(w, r, err)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}

		var body ProblemDetails
		if decodeErr := json.NewDecoder(w.Body).Decode(&body); decodeErr != nil {
			t.Fatalf("decode response: %v", decodeErr)
		}
		if body.Code != "ACCOUNT_NOT_FOUND" {
			t.Fatalf("expected reason code ACCOUNT_NOT_FOUND, got %q", body.Code)
		}
		if body.Detail != "account not found" {
			t.Fatalf("expected detail to be returned, got %q", body.Detail)
		}
		if body.Title != "Not Found" {
			t.Fatalf("expected title Not Found, got %q", body.Title)
		}
	})

	t.Run("trace id comes from request context", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/banks", nil)
		r = r.WithContext(requestcontext.WithRequestID(r.Context(), "req-777"))
		WriteError(w, r, dErrors.New(dErrors.CodeConflict, "name already exists"))

		var body ProblemDetails
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.TraceID != "req-777" {
			t.Fatalf("expected traceId req-777, got %q", body.TraceID)
		}
	})

	t.Run("plain error maps to internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/currencies", nil)
		WriteError(w, r, errors.New("boom"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}
	})
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("decodes valid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/banks", strings.NewReader(`{"name":"Alfa"}`))
		var p payload
		if err := DecodeJSON(r, &p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Name != "Alfa" {
			t.Fatalf("expected name Alfa, got %q", p.Name)
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/banks", strings.NewReader(`{"name":"Alfa","bogus":1}`))
		var p payload
		err := DecodeJSON(r, &p)
		if !dErrors.HasCode(err, dErrors.CodeBadRequest) {
			t.Fatalf("expected bad_request, got %v", err)
		}
	})

	t.Run("rejects empty body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/banks", strings.NewReader(""))
		var p payload
		err := DecodeJSON(r, &p)
		if !dErrors.HasCode(err, dErrors.CodeBadRequest) {
			t.Fatalf("expected bad_request, got %v", err)
		}
	})

	t.Run("rejects trailing data", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/banks", strings.NewReader(`{"name":"Alfa"}{"name":"Beta"}`))
		var p payload
		err := DecodeJSON(r, &p)
		if !dErrors.HasCode(err, dErrors.CodeBadRequest) {
			t.Fatalf("expected bad_request, got %v", err)
		}
	})
}
