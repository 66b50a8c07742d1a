package e2e

import (
	"os"
	"testing"

	"github.com/cucumber/godog"
)

// TestFeatures runs the Gherkin suite against live services. Point
// E2E_CATALOG_URL and E2E_TRANSACTIONS_URL at them; set E2E_AUTH_TOKEN when
// the services run with a signing key. Replication scenarios expect the
// transactions service to run with CATALOG_SYNC_INTERVAL of a few seconds.
func TestFeatures(t *testing.T) {
	catalogURL := os.Getenv("E2E_CATALOG_URL")
	transactionsURL := os.Getenv("E2E_TRANSACTIONS_URL")
	if catalogURL == "" || transactionsURL == "" {
		t.Skip("E2E_CATALOG_URL and E2E_TRANSACTIONS_URL not set, skipping end-to-end suite")
	}

	suite := godog.TestSuite{
		ScenarioInitializer: func(ctx *godog.ScenarioContext) {
			tc := NewTestContext(catalogURL, transactionsURL, os.Getenv("E2E_AUTH_TOKEN"))
			RegisterSteps(ctx, tc)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("end-to-end suite failed")
	}
}
