// The transactions service records transactions and transfers, validating
// account and category references against denormalized catalog replicas. A
// background job polls the catalog service to keep the replicas fresh. main
// wires configuration, stores, the domain service, the replicator and the
// HTTP surface.
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
	"golang.org/x/sync/errgroup"

	"github.com/smakki/FinanceManager-sub000/internal/platform/config"
	"github.com/smakki/FinanceManager-sub000/internal/platform/database"
	"github.com/smakki/FinanceManager-sub000/internal/platform/httpserver"
	"github.com/smakki/FinanceManager-sub000/internal/platform/logger"
	"github.com/smakki/FinanceManager-sub000/internal/platform/metrics"
	"github.com/smakki/FinanceManager-sub000/internal/platform/middleware"
	"github.com/smakki/FinanceManager-sub000/internal/platform/token"
	"github.com/smakki/FinanceManager-sub000/internal/transactions/handler"
	txnmetrics "github.com/smakki/FinanceManager-sub000/internal/transactions/metrics"
	"github.com/smakki/FinanceManager-sub000/internal/transactions/replicator"
	"github.com/smakki/FinanceManager-sub000/internal/transactions/service"
	"github.com/smakki/FinanceManager-sub000/internal/transactions/store"
	replicastore "github.com/smakki/FinanceManager-sub000/internal/transactions/store/replica"
	transactionstore "github.com/smakki/FinanceManager-sub000/internal/transactions/store/transaction"
	transferstore "github.com/smakki/FinanceManager-sub000/internal/transactions/store/transfer"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/httputil"
)

func main() {
	cfg := config.TransactionsFromEnv()
	log := logger.New("transactions")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("transactions failed", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Transactions, log *slog.Logger) error {
	m := txnmetrics.New()

	var db *sql.DB
	svcOpts := []service.Option{service.WithLogger(log), service.WithMetrics(m)}
	repOpts := []replicator.Option{
		replicator.WithLogger(log),
		replicator.WithMetrics(m),
		replicator.WithInterval(cfg.SyncInterval),
	}
	var stores service.Stores
	var writer replicator.ReplicaWriter
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
		replicas := replicastore.NewPostgres(db)
		stores = service.Stores{
			Transactions: transactionstore.NewPostgres(db),
			Transfers:    transferstore.NewPostgres(db),
			Replicas:     replicas,
		}
		writer = replicas
		runner := database.NewTxRunner(db)
		svcOpts = append(svcOpts, service.WithTx(runner))
		repOpts = append(repOpts, replicator.WithTx(runner))
	} else {
		log.Warn("TRANSACTIONS_DATABASE_URL not set, running on in-memory stores")
		replicas := replicastore.NewInMemory()
		stores = service.Stores{
			Transactions: transactionstore.NewInMemory(),
			Transfers:    transferstore.NewInMemory(),
			Replicas:     replicas,
		}
		writer = replicas
	}

	if len(cfg.SyncKinds) > 0 {
		kinds, err := replicator.ParseKinds(cfg.SyncKinds)
		if err != nil {
			log.Warn("ignoring CATALOG_SYNC_KINDS", "error", err.Error())
		} else {
			repOpts = append(repOpts, replicator.WithKinds(kinds...))
		}
	}

	tokens := token.NewManager(cfg.AuthSigningKey, "transactions")
	var validator middleware.TokenValidator
	if tokens != nil {
		validator = tokens
		log.Info("service auth enabled")
	}

	client := replicator.NewClient(cfg.CatalogBaseURL,
		replicator.WithHTTPClient(&http.Client{Timeout: cfg.CatalogHTTPTimeout}),
		replicator.WithServiceToken(tokens),
		replicator.WithClientLogger(log),
	)
	sync := replicator.New(client, writer, repOpts...)

	svc := service.New(stores, svcOpts...)
	h := handler.New(svc, log)

	router := chi.NewRouter()
	router.Use(
		middleware.Recovery(log),
		middleware.RequestID,
		middleware.RequestTime,
		middleware.Tracing("transactions"),
		middleware.RequestLogger(log),
		middleware.Timeout(30*time.Second),
		middleware.Latency(metrics.NewHTTP("transactions")),
	)
	router.Get("/healthz", healthHandler(db))
	router.Handle("/metrics", promhttp.Handler())
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireServiceAuth(validator, log), middleware.RequireJSON)
		h.Register(r)
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serve(gctx, cfg.Addr, cfg.ShutdownTimeout, router, log)
	})
	if cfg.SyncDisabled {
		log.Warn("catalog sync disabled, replicas will go stale")
	} else {
		g.Go(func() error {
			return sync.Run(gctx)
		})
	}
	return g.Wait()
}

// serve runs the HTTP server until the context is cancelled, then shuts it
// down gracefully.
func serve(ctx context.Context, addr string, shutdownTimeout time.Duration, h http.Handler, log *slog.Logger) error {
	srv := httpserver.New(addr, h)

	errCh := make(chan error, 1)
	go func() {
		log.Info("transactions listening", "addr", addr)
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
	log.Info("transactions stopped")
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
