package replicator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/smakki/FinanceManager-sub000/internal/platform/token"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/circuit"
)

// ClientSuite exercises the catalog client against a stand-in HTTP server
// speaking the catalog's wire format.
type ClientSuite struct {
	suite.Suite
	ctx context.Context
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *ClientSuite) TestFetchWalksPagesUntilShortPage() {
	var pagesServed atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/api/v1/accounts", r.URL.Path)
		q := r.URL.Query()
		s.Equal("true", q.Get("includeDeleted"))
		s.Equal("true", q.Get("includeArchived"))
		s.Equal(strconv.Itoa(id.MaxItemsPerPage), q.Get("ItemsPerPage"))

		page, err := strconv.Atoi(q.Get("Page"))
		s.Require().NoError(err)
		pagesServed.Add(1)

		count := id.MaxItemsPerPage
		if page == 2 {
			count = 3
		}
		records := make([]map[string]any, 0, count)
		for i := 0; i < count; i++ {
			records = append(records, map[string]any{
				"id":               uuid.NewString(),
				"registryHolderId": uuid.NewString(),
				"name":             fmt.Sprintf("Account %d-%d", page, i),
				"isArchived":       i%2 == 0,
				"isDeleted":        false,
				"createdAt":        "2025-01-01T00:00:00Z",
			})
		}
		w.Header().Set("Content-Type", "application/json")
		s.Require().NoError(json.NewEncoder(w).Encode(records))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	accounts, err := client.FetchAccounts(s.ctx)
	s.Require().NoError(err)
	s.Len(accounts, id.MaxItemsPerPage+3)
	s.EqualValues(2, pagesServed.Load())
	s.Equal("Account 1-0", accounts[0].Name)
	s.True(accounts[0].IsArchived)
}

func (s *ClientSuite) TestServiceTokenAttached() {
	tokens := token.NewManager("test-signing-key", "transactions")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		s.Require().True(strings.HasPrefix(header, "Bearer "), "missing bearer token")
		claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		s.Require().NoError(err)
		s.Equal("transactions", claims.Service)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithServiceToken(tokens))
	currencies, err := client.FetchCurrencies(s.ctx)
	s.Require().NoError(err)
	s.Empty(currencies)
}

func (s *ClientSuite) TestUpstreamErrorSurfacesAsExternalAPI() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.FetchHolders(s.ctx)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.Equal("EXTERNAL_API_ERROR", dErrors.ReasonOf(err))
}

func (s *ClientSuite) TestBreakerOpensAndShortCircuits() {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	for i := 0; i < 5; i++ {
		_, err := client.FetchHolders(s.ctx)
		s.Require().Error(err)
	}
	s.EqualValues(5, hits.Load())

	// Sixth call is refused locally; the upstream sees nothing.
	_, err := client.FetchHolders(s.ctx)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.EqualValues(5, hits.Load())
}

func (s *ClientSuite) TestBreakerProbesAndClosesAfterTimeout() {
	var failing atomic.Bool
	failing.Store(true)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		if failing.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	client.breaker = circuit.New("catalog", circuit.WithOpenTimeout(20*time.Millisecond))

	for i := 0; i < 5; i++ {
		_, err := client.FetchHolders(s.ctx)
		s.Require().Error(err)
	}
	s.True(client.breaker.IsOpen())

	// Inside the open window calls are refused without touching the upstream.
	_, err := client.FetchHolders(s.ctx)
	s.Require().Error(err)
	s.EqualValues(5, hits.Load())

	// Once the window elapses a probe goes through, and the healthy response
	// closes the circuit again.
	failing.Store(false)
	time.Sleep(30 * time.Millisecond)
	holders, err := client.FetchHolders(s.ctx)
	s.Require().NoError(err)
	s.Empty(holders)
	s.False(client.breaker.IsOpen())
}
