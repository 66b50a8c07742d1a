package replicator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/smakki/FinanceManager-sub000/internal/platform/token"
	"github.com/smakki/FinanceManager-sub000/internal/transactions/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/circuit"
)

const (
	defaultClientTimeout = 30 * time.Second
	serviceName          = "transactions"

	// How long an open breaker refuses calls before letting a probe through.
	// Kept well under the sync interval so a recovered catalog is picked up on
	// the next scheduled pass.
	breakerOpenTimeout = 5 * time.Minute
)

var errCircuitOpen = errors.New("circuit breaker open")

type clientConfig struct {
	httpClient *http.Client
	tokens     *token.Manager
	logger     *slog.Logger
	pageSize   int
}

type ClientOption func(cfg *clientConfig)

// WithHTTPClient replaces the default 30s-timeout client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(cfg *clientConfig) {
		if httpClient != nil {
			cfg.httpClient = httpClient
		}
	}
}

// WithServiceToken makes the client authenticate each request with a freshly
// minted service token. A nil manager leaves auth off.
func WithServiceToken(tokens *token.Manager) ClientOption {
	return func(cfg *clientConfig) {
		cfg.tokens = tokens
	}
}

func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(cfg *clientConfig) {
		cfg.logger = logger
	}
}

// Client fetches catalog collections over HTTP. It walks list endpoints page
// by page, asking for deleted (and for accounts, archived) rows too: the
// replicas must mirror the catalog's full state, not just the live rows. A
// circuit breaker sits in front of the catalog so a dead upstream is skipped
// instead of hammered.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *circuit.Breaker
	tokens     *token.Manager
	logger     *slog.Logger
	pageSize   int
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	cfg := &clientConfig{
		httpClient: &http.Client{Timeout: defaultClientTimeout},
		pageSize:   id.MaxItemsPerPage,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: cfg.httpClient,
		breaker:    circuit.New("catalog", circuit.WithOpenTimeout(breakerOpenTimeout)),
		tokens:     cfg.tokens,
		logger:     cfg.logger,
		pageSize:   cfg.pageSize,
	}
}

func (c *Client) FetchHolders(ctx context.Context) ([]*models.HolderReplica, error) {
	return fetchPages[models.HolderReplica](ctx, c, "/api/v1/registry-holders", url.Values{
		"includeDeleted": {"true"},
	})
}

func (c *Client) FetchAccounts(ctx context.Context) ([]*models.AccountReplica, error) {
	return fetchPages[models.AccountReplica](ctx, c, "/api/v1/accounts", url.Values{
		"includeDeleted":  {"true"},
		"includeArchived": {"true"},
	})
}

func (c *Client) FetchAccountTypes(ctx context.Context) ([]*models.AccountTypeReplica, error) {
	return fetchPages[models.AccountTypeReplica](ctx, c, "/api/v1/account-types", url.Values{
		"includeDeleted": {"true"},
	})
}

func (c *Client) FetchCategories(ctx context.Context) ([]*models.CategoryReplica, error) {
	return fetchPages[models.CategoryReplica](ctx, c, "/api/v1/categories", url.Values{
		"includeDeleted": {"true"},
	})
}

func (c *Client) FetchCurrencies(ctx context.Context) ([]*models.CurrencyReplica, error) {
	return fetchPages[models.CurrencyReplica](ctx, c, "/api/v1/currencies", url.Values{
		"includeDeleted": {"true"},
	})
}

// fetchPages walks a collection endpoint until a short page signals the end.
func fetchPages[T any](ctx context.Context, c *Client, path string, query url.Values) ([]*T, error) {
	var out []*T
	for page := 1; ; page++ {
		q := url.Values{}
		for name, values := range query {
			q[name] = values
		}
		q.Set("Page", strconv.Itoa(page))
		q.Set("ItemsPerPage", strconv.Itoa(c.pageSize))

		var batch []*T
		if err := c.getJSON(ctx, path, q, &batch); err != nil {
			return nil, err
		}
		out = append(out, batch...)
		if len(batch) < c.pageSize {
			return out, nil
		}
	}
}

// getJSON performs one GET through the breaker. Any failure counts against
// the breaker and surfaces as an external-API error.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dst any) error {
	if c.breaker.IsOpen() {
		return models.ErrExternalAPI(errCircuitOpen, path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return models.ErrExternalAPI(err, path)
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		serviceToken, err := c.tokens.Mint(serviceName)
		if err != nil {
			return models.ErrExternalAPI(err, "minting service token")
		}
		req.Header.Set("Authorization", "Bearer "+serviceToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFailure(ctx)
		return models.ErrExternalAPI(err, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.recordFailure(ctx)
		return models.ErrExternalAPI(fmt.Errorf("unexpected status %d", resp.StatusCode), path)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		c.recordFailure(ctx)
		return models.ErrExternalAPI(err, path)
	}
	c.recordSuccess(ctx)
	return nil
}

func (c *Client) recordFailure(ctx context.Context) {
	_, change := c.breaker.RecordFailure()
	if change.Opened && c.logger != nil {
		c.logger.WarnContext(ctx, "circuit breaker opened", "breaker", c.breaker.Name())
	}
}

func (c *Client) recordSuccess(ctx context.Context) {
	_, change := c.breaker.RecordSuccess()
	if change.Closed && c.logger != nil {
		c.logger.InfoContext(ctx, "circuit breaker closed", "breaker", c.breaker.Name())
	}
}
