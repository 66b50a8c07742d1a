// Package httputil contains helpers shared by all HTTP handlers: JSON
// rendering, the problem-details error body, and strict request decoding.
package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
	"github.com/smakki/FinanceManager-sub000/pkg/requestcontext"
)

const maxBodyBytes = 1 << 20

// ProblemDetails is the error body returned by every endpoint.
type ProblemDetails struct {
	Status  int    `json:"status"`
	Title   string `json:"title"`
	Detail  string `json:"detail,omitempty"`
	Code    string `json:"code,omitempty"`
	TraceID string `json:"traceId,omitempty"`
}

// WriteJSON renders v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to a problem-details response. Internal errors hide
// their detail so infrastructure messages never leak to clients.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)

	body := ProblemDetails{
		Status: status,
		Title:  http.StatusText(status),
		Code:   string(code),
	}
	if reason := dErrors.ReasonOf(err); reason != "" {
		body.Code = reason
	}
	if code != dErrors.CodeInternal {
		body.Detail = dErrors.MessageOf(err)
	}
	if r != nil {
		body.TraceID = traceID(r)
	}

	WriteJSON(w, status, body)
}

func traceID(r *http.Request) string {
	if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return requestcontext.RequestID(r.Context())
}

// DecodeJSON parses the request body into dst. It rejects unknown fields,
// oversized bodies and trailing garbage, returning a bad-request domain error
// the handler can pass straight to WriteError.
func DecodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return dErrors.New(dErrors.CodeBadRequest, "request body is empty")
		case errors.As(err, &maxErr):
			return dErrors.Newf(dErrors.CodeBadRequest, "request body exceeds %d bytes", maxErr.Limit)
		default:
			return dErrors.Wrap(err, dErrors.CodeBadRequest, fmt.Sprintf("malformed request body: %v", err))
		}
	}
	if dec.More() {
		return dErrors.New(dErrors.CodeBadRequest, "request body must contain a single JSON object")
	}
	return nil
}
