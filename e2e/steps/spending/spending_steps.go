// Package spending holds step definitions for the transactions service:
// recording transactions and transfers against replicated catalog data.
package spending

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
)

// unknownAccountID is well-formed but never issued by the catalog.
const unknownAccountID = "11111111-1111-1111-1111-111111111111"

// TestContext is the slice of the suite context these steps use.
type TestContext interface {
	TransactionsPOST(path string, body any) error
	TransactionsGET(path string) error
	LastStatus() int
	LastBody() []byte
	ResponseField(name string) (any, error)
	Account(name string) (string, error)
	Category(name string) (string, error)
	AccountCount() int
	CategoryCount() int
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &spendingSteps{tc: tc}

	ctx.Step(`^the catalog has been replicated$`, steps.catalogReplicated)
	ctx.Step(`^I record a (-?[0-9.]+) transaction on "([^"]*)" in "([^"]*)"$`, steps.recordTransaction)
	ctx.Step(`^I record a (-?[0-9.]+) transaction on an unknown account in "([^"]*)"$`, steps.recordTransactionUnknownAccount)
	ctx.Step(`^the transaction is stored with amount "([^"]*)"$`, steps.transactionStoredWithAmount)
	ctx.Step(`^I transfer ([0-9.]+) from "([^"]*)" to "([^"]*)"$`, steps.recordTransfer)
	ctx.Step(`^the transfer is stored$`, steps.transferStored)
	ctx.Step(`^the sync status reports at least (\d+) accounts?$`, steps.syncStatusReportsAccounts)
}

type spendingSteps struct {
	tc TestContext
}

// replicaCount reads one counter out of the sync status response.
func (s *spendingSteps) replicaCount(kind string) (int, error) {
	if err := s.tc.TransactionsGET("/api/v1/sync/status"); err != nil {
		return 0, err
	}
	if s.tc.LastStatus() != 200 {
		return 0, fmt.Errorf("sync status returned %d (body: %s)", s.tc.LastStatus(), s.tc.LastBody())
	}
	value, err := s.tc.ResponseField("replicas")
	if err != nil {
		return 0, err
	}
	counts, ok := value.(map[string]any)
	if !ok {
		return 0, fmt.Errorf("replicas field is %T, want object", value)
	}
	count, ok := counts[kind].(float64)
	if !ok {
		return 0, fmt.Errorf("replicas has no numeric %q counter: %v", kind, counts)
	}
	return int(count), nil
}

// catalogReplicated polls the sync status until every account and category the
// scenario created has arrived. Assumes the transactions service started with
// a fresh store and a sync interval of a few seconds.
func (s *spendingSteps) catalogReplicated(ctx context.Context) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		accounts, err := s.replicaCount("accounts")
		if err != nil {
			return err
		}
		categories, err := s.replicaCount("categories")
		if err != nil {
			return err
		}
		if accounts >= s.tc.AccountCount() && categories >= s.tc.CategoryCount() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("replication did not catch up: %d/%d accounts, %d/%d categories",
				accounts, s.tc.AccountCount(), categories, s.tc.CategoryCount())
		}
		time.Sleep(500 * time.Millisecond)
	}
}

func (s *spendingSteps) postTransaction(accountID, categoryID, amount string) error {
	return s.tc.TransactionsPOST("/api/v1/transactions", map[string]any{
		"accountId":  accountID,
		"categoryId": categoryID,
		"amount":     amount,
		"date":       time.Now().UTC().Format(time.RFC3339),
		"comment":    "recorded by the end-to-end suite",
	})
}

func (s *spendingSteps) recordTransaction(ctx context.Context, amount, account, category string) error {
	accountID, err := s.tc.Account(account)
	if err != nil {
		return err
	}
	categoryID, err := s.tc.Category(category)
	if err != nil {
		return err
	}
	return s.postTransaction(accountID, categoryID, amount)
}

func (s *spendingSteps) recordTransactionUnknownAccount(ctx context.Context, amount, category string) error {
	categoryID, err := s.tc.Category(category)
	if err != nil {
		return err
	}
	return s.postTransaction(unknownAccountID, categoryID, amount)
}

func (s *spendingSteps) transactionStoredWithAmount(ctx context.Context, amount string) error {
	if s.tc.LastStatus() != 201 {
		return fmt.Errorf("expected 201, got %d (body: %s)", s.tc.LastStatus(), s.tc.LastBody())
	}
	stored, err := s.tc.ResponseField("amount")
	if err != nil {
		return err
	}
	if stored != amount {
		return fmt.Errorf("expected stored amount %q, got %v", amount, stored)
	}
	return nil
}

func (s *spendingSteps) recordTransfer(ctx context.Context, amount, from, to string) error {
	fromID, err := s.tc.Account(from)
	if err != nil {
		return err
	}
	toID, err := s.tc.Account(to)
	if err != nil {
		return err
	}
	return s.tc.TransactionsPOST("/api/v1/transfers", map[string]any{
		"fromAccountId": fromID,
		"toAccountId":   toID,
		"fromAmount":    amount,
		"toAmount":      amount,
		"date":          time.Now().UTC().Format(time.RFC3339),
		"comment":       "moved by the end-to-end suite",
	})
}

func (s *spendingSteps) transferStored(ctx context.Context) error {
	if s.tc.LastStatus() != 201 {
		return fmt.Errorf("expected 201, got %d (body: %s)", s.tc.LastStatus(), s.tc.LastBody())
	}
	if _, err := s.tc.ResponseField("id"); err != nil {
		return err
	}
	return nil
}

func (s *spendingSteps) syncStatusReportsAccounts(ctx context.Context, minimum int) error {
	accounts, err := s.replicaCount("accounts")
	if err != nil {
		return err
	}
	if accounts < minimum {
		return fmt.Errorf("sync status reports %d accounts, want at least %d", accounts, minimum)
	}
	return nil
}
