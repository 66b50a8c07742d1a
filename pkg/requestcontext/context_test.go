package requestcontext_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/smakki/FinanceManager-sub000/pkg/requestcontext"
)

func TestRequestID(t *testing.T) {
	t.Run("returns empty string when unset", func(t *testing.T) {
		assert.Equal(t, "", requestcontext.RequestID(context.Background()))
	})

	t.Run("round-trips through context", func(t *testing.T) {
		ctx := requestcontext.WithRequestID(context.Background(), "req-123")
		assert.Equal(t, "req-123", requestcontext.RequestID(ctx))
	})
}

func TestNow(t *testing.T) {
	t.Run("falls back to wall clock when unset", func(t *testing.T) {
		before := time.Now()
		got := requestcontext.Now(context.Background())
		after := time.Now()

		assert.False(t, got.Before(before))
		assert.False(t, got.After(after))
	})

	t.Run("returns injected time", func(t *testing.T) {
		fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		ctx := requestcontext.WithTime(context.Background(), fixed)
		assert.Equal(t, fixed, requestcontext.Now(ctx))
	})
}
