// The catalog service owns the reference data: holders, countries, banks,
// currencies, account types, accounts, categories and exchange rates. main
// wires configuration, stores, the domain service and the HTTP surface;
// business logic lives under internal/catalog.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/handler"
	catalogmetrics "github.com/smakki/FinanceManager-sub000/internal/catalog/metrics"
	"github.com/smakki/FinanceManager-sub000/internal/catalog/service"
	"github.com/smakki/FinanceManager-sub000/internal/catalog/store"
	accountstore "github.com/smakki/FinanceManager-sub000/internal/catalog/store/account"
	accounttypestore "github.com/smakki/FinanceManager-sub000/internal/catalog/store/accounttype"
	bankstore "github.com/smakki/FinanceManager-sub000/internal/catalog/store/bank"
	categorystore "github.com/smakki/FinanceManager-sub000/internal/catalog/store/category"
	countrystore "github.com/smakki/FinanceManager-sub000/internal/catalog/store/country"
	currencystore "github.com/smakki/FinanceManager-sub000/internal/catalog/store/currency"
	holderstore "github.com/smakki/FinanceManager-sub000/internal/catalog/store/holder"
	ratestore "github.com/smakki/FinanceManager-sub000/internal/catalog/store/rate"
	"github.com/smakki/FinanceManager-sub000/internal/platform/config"
	"github.com/smakki/FinanceManager-sub000/internal/platform/database"
	"github.com/smakki/FinanceManager-sub000/internal/platform/httpserver"
	"github.com/smakki/FinanceManager-sub000/internal/platform/logger"
	"github.com/smakki/FinanceManager-sub000/internal/platform/metrics"
	"github.com/smakki/FinanceManager-sub000/internal/platform/middleware"
	"github.com/smakki/FinanceManager-sub000/internal/platform/token"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/httputil"
)

func main() {
	cfg := config.CatalogFromEnv()
	log := logger.New("catalog")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("catalog failed", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Catalog, log *slog.Logger) error {
	var db *sql.DB
	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(catalogmetrics.New()),
	}
	var stores service.Stores
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if _, err := db.ExecContext(ctx, store.Schema); err != nil {
			return err
		}
		stores = service.Stores{
			Holders:      holderstore.NewPostgres(db),
			Countries:    countrystore.NewPostgres(db),
			Banks:        bankstore.NewPostgres(db),
			Currencies:   currencystore.NewPostgres(db),
			AccountTypes: accounttypestore.NewPostgres(db),
			Accounts:     accountstore.NewPostgres(db),
			Categories:   categorystore.NewPostgres(db),
			Rates:        ratestore.NewPostgres(db),
		}
		opts = append(opts, service.WithTx(database.NewTxRunner(db)))
	} else {
		log.Warn("CATALOG_DATABASE_URL not set, running on in-memory stores with seed data")
		countries := countrystore.NewInMemory()
		banks := bankstore.NewInMemory()
		currencies := currencystore.NewInMemory()
		accountTypes := accounttypestore.NewInMemory()
		store.SeedReferenceData(countries, banks, currencies, accountTypes)
		stores = service.Stores{
			Holders:      holderstore.NewInMemory(),
			Countries:    countries,
			Banks:        banks,
			Currencies:   currencies,
			AccountTypes: accountTypes,
			Accounts:     accountstore.NewInMemory(),
			Categories:   categorystore.NewInMemory(),
			Rates:        ratestore.NewInMemory(),
		}
	}

	catalog := service.New(stores, opts...)
	h := handler.New(catalog, log)

	var validator middleware.TokenValidator
	if cfg.AuthSigningKey != "" {
		validator = token.NewManager(cfg.AuthSigningKey, "catalog")
		log.Info("service auth enabled")
	}

	router := chi.NewRouter()
	router.Use(
		middleware.Recovery(log),
		middleware.RequestID,
		middleware.RequestTime,
		middleware.Tracing("catalog"),
		middleware.RequestLogger(log),
		middleware.Timeout(30*time.Second),
		middleware.Latency(metrics.NewHTTP("catalog")),
	)
	router.Get("/healthz", healthHandler(db))
	router.Handle("/metrics", promhttp.Handler())
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireServiceAuth(validator, log), middleware.RequireJSON)
		h.Register(r)
	})

	return serve(ctx, cfg.Addr, cfg.ShutdownTimeout, router, log)
}

// serve runs the HTTP server until the context is cancelled, then shuts it
// down gracefully.
func serve(ctx context.Context, addr string, shutdownTimeout time.Duration, h http.Handler, log *slog.Logger) error {
	srv := httpserver.New(addr, h)

	errCh := make(chan error, 1)
	go func() {
		log.Info("catalog listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("catalog stopped")
	return nil
}

// healthHandler reports liveness, pinging the database when one is configured.
func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			pingCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(pingCtx); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
