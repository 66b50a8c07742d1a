// Package config reads service configuration from environment variables so
// main stays lean. Each binary has its own FromEnv constructor; defaults suit
// local development and are overridden in deployment.
package config

import (
	"os"
	"strings"
	"time"

	platformstrings "github.com/smakki/FinanceManager-sub000/pkg/platform/strings"
)

// Catalog captures configuration for the catalog service.
type Catalog struct {
	Addr            string
	DatabaseURL     string
	AuthSigningKey  string
	ShutdownTimeout time.Duration
}

// CatalogFromEnv builds a Catalog config from environment variables.
func CatalogFromEnv() Catalog {
	return Catalog{
		Addr:            envOr("CATALOG_ADDR", ":8080"),
		DatabaseURL:     os.Getenv("CATALOG_DATABASE_URL"),
		AuthSigningKey:  os.Getenv("AUTH_SIGNING_KEY"),
		ShutdownTimeout: durationOr("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Transactions captures configuration for the transactions service, including
// how it reaches the catalog service for replication.
type Transactions struct {
	Addr            string
	DatabaseURL     string
	AuthSigningKey  string
	ShutdownTimeout time.Duration

	CatalogBaseURL     string
	CatalogHTTPTimeout time.Duration
	SyncInterval       time.Duration
	// SyncDisabled turns the background sync off entirely; replicas keep
	// whatever state is already stored.
	SyncDisabled bool
	// SyncKinds restricts which replica kinds the sync job refreshes.
	// Empty means all kinds.
	SyncKinds []string
}

// TransactionsFromEnv builds a Transactions config from environment variables.
func TransactionsFromEnv() Transactions {
	return Transactions{
		Addr:               envOr("TRANSACTIONS_ADDR", ":8081"),
		DatabaseURL:        os.Getenv("TRANSACTIONS_DATABASE_URL"),
		AuthSigningKey:     os.Getenv("AUTH_SIGNING_KEY"),
		ShutdownTimeout:    durationOr("SHUTDOWN_TIMEOUT", 10*time.Second),
		CatalogBaseURL:     envOr("CATALOG_BASE_URL", "http://localhost:8080"),
		CatalogHTTPTimeout: durationOr("CATALOG_HTTP_TIMEOUT", 30*time.Second),
		SyncInterval:       durationOr("CATALOG_SYNC_INTERVAL", time.Hour),
		SyncDisabled:       boolOr("CATALOG_SYNC_DISABLED"),
		SyncKinds:          listOr("CATALOG_SYNC_KINDS"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func boolOr(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func listOr(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	return platformstrings.DedupeAndTrimLower(strings.Split(v, ","))
}
