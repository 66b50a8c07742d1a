package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches direct error", func(t *testing.T) {
		err := New(CodeNotFound, "account not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeConflict))
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		inner := New(CodeConflict, "name taken")
		err := fmt.Errorf("create bank: %w", inner)
		assert.True(t, HasCode(err, CodeConflict))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
	})
}

func TestWithReason(t *testing.T) {
	base := New(CodeConflict, "char code already exists")
	coded := base.WithReason("CURRENCY_CHARCODE_EXISTS")

	assert.Equal(t, "CURRENCY_CHARCODE_EXISTS", ReasonOf(coded))
	assert.Empty(t, ReasonOf(base), "WithReason must not mutate the original")
	assert.Equal(t, CodeConflict, CodeOf(coded))
}

func TestWrapPreservesChain(t *testing.T) {
	sentinel := errors.New("no rows")
	err := Wrap(sentinel, CodeNotFound, "currency not found")

	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:         http.StatusBadRequest,
		CodeInvalidInput:       http.StatusUnprocessableEntity,
		CodeNotFound:           http.StatusNotFound,
		CodeConflict:           http.StatusConflict,
		CodeInvariantViolation: http.StatusConflict,
		CodeUnauthorized:       http.StatusUnauthorized,
		CodeTimeout:            http.StatusGatewayTimeout,
		CodeUnavailable:        http.StatusBadGateway,
		CodeInternal:           http.StatusInternalServerError,
		Code("unknown"):        http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), "code %s", code)
	}
}
