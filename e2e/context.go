// Package e2e drives the running catalog and transactions services over HTTP.
//
// The suite only runs when E2E_CATALOG_URL and E2E_TRANSACTIONS_URL point at
// live services. Scenarios create their own reference data with unique names,
// so a shared environment survives repeated runs, but replication scenarios
// assume the services started with fresh stores and a short
// CATALOG_SYNC_INTERVAL (a few seconds).
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TestContext carries scenario state: the HTTP clients, the last response,
// and the ids of entities the scenario created.
type TestContext struct {
	catalogURL      string
	transactionsURL string
	authToken       string
	client          *http.Client

	lastStatus int
	lastBody   []byte

	nonce      int64
	holderID   string
	currencyID string
	typeID     string
	accounts   map[string]string
	categories map[string]string
}

func NewTestContext(catalogURL, transactionsURL, authToken string) *TestContext {
	return &TestContext{
		catalogURL:      catalogURL,
		transactionsURL: transactionsURL,
		authToken:       authToken,
		client:          &http.Client{Timeout: 10 * time.Second},
		nonce:           time.Now().UnixNano(),
		accounts:        make(map[string]string),
		categories:      make(map[string]string),
	}
}

func (tc *TestContext) do(method, base, path string, body any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.authToken)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) CatalogPOST(path string, body any) error {
	return tc.do(http.MethodPost, tc.catalogURL, path, body)
}

func (tc *TestContext) CatalogGET(path string) error {
	return tc.do(http.MethodGet, tc.catalogURL, path, nil)
}

func (tc *TestContext) CatalogDELETE(path string) error {
	return tc.do(http.MethodDelete, tc.catalogURL, path, nil)
}

func (tc *TestContext) TransactionsPOST(path string, body any) error {
	return tc.do(http.MethodPost, tc.transactionsURL, path, body)
}

func (tc *TestContext) TransactionsGET(path string) error {
	return tc.do(http.MethodGet, tc.transactionsURL, path, nil)
}

func (tc *TestContext) LastStatus() int { return tc.lastStatus }

func (tc *TestContext) LastBody() []byte { return tc.lastBody }

// ResponseField returns a top-level field from the last JSON response.
func (tc *TestContext) ResponseField(name string) (any, error) {
	var decoded map[string]any
	if err := json.Unmarshal(tc.lastBody, &decoded); err != nil {
		return nil, fmt.Errorf("last response is not a JSON object: %w (body: %s)", err, tc.lastBody)
	}
	value, ok := decoded[name]
	if !ok {
		return nil, fmt.Errorf("field %q not present in response: %s", name, tc.lastBody)
	}
	return value, nil
}

// Unique appends a scenario nonce, so names never collide with earlier runs
// against the same environment.
func (tc *TestContext) Unique(name string) string {
	return fmt.Sprintf("%s-%d", name, tc.nonce)
}

// Nonce is the scenario's numeric seed, used for telegram ids and codes.
func (tc *TestContext) Nonce() int64 { return tc.nonce }

func (tc *TestContext) SetHolder(holderID string) { tc.holderID = holderID }

func (tc *TestContext) Holder() string { return tc.holderID }

func (tc *TestContext) SetCurrency(currencyID string) { tc.currencyID = currencyID }

func (tc *TestContext) Currency() string { return tc.currencyID }

func (tc *TestContext) SetAccountType(typeID string) { tc.typeID = typeID }

func (tc *TestContext) AccountType() string { return tc.typeID }

func (tc *TestContext) SetAccount(name, accountID string) { tc.accounts[name] = accountID }

func (tc *TestContext) Account(name string) (string, error) {
	accountID, ok := tc.accounts[name]
	if !ok {
		return "", fmt.Errorf("no account %q created in this scenario", name)
	}
	return accountID, nil
}

func (tc *TestContext) AccountCount() int { return len(tc.accounts) }

func (tc *TestContext) SetCategory(name, categoryID string) { tc.categories[name] = categoryID }

func (tc *TestContext) Category(name string) (string, error) {
	categoryID, ok := tc.categories[name]
	if !ok {
		return "", fmt.Errorf("no category %q created in this scenario", name)
	}
	return categoryID, nil
}

func (tc *TestContext) CategoryCount() int { return len(tc.categories) }
