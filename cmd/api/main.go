package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Overland-East-Bay/newsletter-api/internal/adapters/httpapi"
	memidempotency "github.com/Overland-East-Bay/newsletter-api/internal/adapters/memory/idempotency"
	memsubscriptionrepo "github.com/Overland-East-Bay/newsletter-api/internal/adapters/memory/subscriptionrepo"
	postgres "github.com/Overland-East-Bay/newsletter-api/internal/adapters/postgres"
	pgidempotency "github.com/Overland-East-Bay/newsletter-api/internal/adapters/postgres/idempotency"
	pgsubscriptionrepo "github.com/Overland-East-Bay/newsletter-api/internal/adapters/postgres/subscriptionrepo"
	"github.com/Overland-East-Bay/newsletter-api/internal/adapters/smtp"
	"github.com/Overland-East-Bay/newsletter-api/internal/adapters/sqldb"
	sqlsubscriptionrepo "github.com/Overland-East-Bay/newsletter-api/internal/adapters/sqldb/subscriptionrepo"
	"github.com/Overland-East-Bay/newsletter-api/internal/app/subscriptions"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/blocking"
	platformclock "github.com/Overland-East-Bay/newsletter-api/internal/platform/clock"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/config"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/logger"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/metrics"
	idempotencyport "github.com/Overland-East-Bay/newsletter-api/internal/ports/out/idempotency"
	"github.com/Overland-East-Bay/newsletter-api/internal/ports/out/mailer"
	subscriptionrepoport "github.com/Overland-East-Bay/newsletter-api/internal/ports/out/subscriptionrepo"
)

const defaultConfigPath = "configuration/base.yaml"

func main() {
	cfg, err := config.LoadFromEnv(configPath())
	if err != nil {
		boot, _ := logger.New("production", "info")
		if boot == nil {
			boot = logger.NewNop()
		}
		boot.Fatal("failed to load configuration", "error", err)
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		logger.NewNop().Fatal("failed to build logger", "error", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := platformclock.NewSystemClock()

	var (
		repo      subscriptionrepoport.Repository
		idemStore idempotencyport.Store
		cleanup   func()
	)

	switch cfg.Storage.Backend {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Database.ConnectionString(), postgres.PoolOptions{MaxConns: cfg.Database.MaxConns})
		if err != nil {
			log.Fatal("invalid postgres config", "error", err)
		}
		cleanup = pool.Close
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal("failed to migrate database", "error", err)
		}
		repo = pgsubscriptionrepo.NewRepo(pool, clk)
		idemStore = pgidempotency.NewStore(pool)
	case "sql":
		d, err := sqldb.ParseDialect(cfg.Storage.Driver)
		if err != nil {
			log.Fatal("invalid sql storage config", "error", err)
		}
		db, err := sqldb.Open(ctx, d, cfg.Storage.DSN, sqldb.Options{})
		if err != nil {
			log.Fatal("failed to open database", "driver", d, "error", err)
		}
		cleanup = func() { _ = db.Close() }
		if err := sqldb.EnsureSchema(ctx, db, d); err != nil {
			log.Fatal("failed to create schema", "driver", d, "error", err)
		}
		repo = sqlsubscriptionrepo.NewRepo(db, d, clk)
		idemStore = memidempotency.NewStore()
	default:
		repo = memsubscriptionrepo.NewRepo(clk)
		idemStore = memidempotency.NewStore()
	}

	if cleanup != nil {
		defer cleanup()
	}

	pool := blocking.NewPool(cfg.Email.MaxConcurrentSends, log.With("component", "blocking"))
	var dispatcher mailer.Dispatcher
	if cfg.Email.Enabled() {
		d, err := smtp.NewDispatcher(smtp.Config{
			Host:        cfg.Email.Host,
			Port:        cfg.Email.Port,
			Username:    cfg.Email.Username,
			Password:    cfg.Email.Password,
			UseStartTLS: cfg.Email.UseStartTLS,
			Sender:      cfg.Email.Sender,
			Timeout:     cfg.Email.Timeout,
		}, pool, log.With("component", "smtp"))
		if err != nil {
			log.Fatal("invalid email client config", "error", err)
		}
		dispatcher = d
	} else {
		log.Warn("email client not configured; welcome emails are disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc := subscriptions.NewService(repo, dispatcher, metrics.NewSubscriptionMetrics(registry), log.With("component", "subscriptions"))
	api := httpapi.NewServer(svc, idemStore, log)

	handler := httpapi.NewRouter(api, httpapi.RouterOptions{
		AllowedOrigins: cfg.Application.AllowedOrigins,
		Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Log:            log.With("component", "http"),
	})

	srv := &http.Server{
		Addr:              cfg.Application.Address(),
		Handler:           handler,
		ReadHeaderTimeout: cfg.Application.ReadHeaderTimeout,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "storage", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Application.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown incomplete", "error", err)
	}
	if err := pool.Close(shutdownCtx); err != nil {
		log.Warn("pending email sends abandoned", "error", err)
	}
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}
