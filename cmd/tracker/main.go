package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kmorten/price-tracker/internal/api"
	"github.com/kmorten/price-tracker/internal/cache"
	"github.com/kmorten/price-tracker/internal/config"
	"github.com/kmorten/price-tracker/internal/fetch"
	"github.com/kmorten/price-tracker/internal/ledger"
	"github.com/kmorten/price-tracker/internal/notify"
	"github.com/kmorten/price-tracker/internal/tracker"
	"github.com/kmorten/price-tracker/pkg/logger"
)

func main() {
	serve := flag.Bool("serve", false, "expose the read-only API after the run")
	skipRun := flag.Bool("skip-run", false, "do not run a tracking pass (API only, with -serve)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init("price-tracker", cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	log := logger.S()

	if len(cfg.ProductURLs) == 0 && !*skipRun {
		log.Fatal("PRODUCT_URLS is empty, nothing to track")
	}

	store, cleanup, err := openStore(cfg)
	if err != nil {
		log.Fatalw("failed to open ledger store", "error", err)
	}
	defer cleanup()

	var summaryCache *cache.Cache
	if cfg.Redis.Enabled {
		summaryCache = cache.New(cfg.Redis.Addr)
		defer summaryCache.Close()
	}

	var producer *notify.Producer
	if cfg.Kafka.Enabled {
		producer = notify.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
	}

	var notifiers []notify.Notifier
	if cfg.SMTP.Enabled() {
		notifiers = append(notifiers, notify.NewEmailNotifier(
			cfg.SMTP.Host, cfg.SMTP.Port,
			cfg.SMTP.Username, cfg.SMTP.Password,
			cfg.SMTP.From, cfg.SMTP.Recipients,
		))
	} else {
		log.Info("email delivery not configured, report will only be logged")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !*skipRun {
		t := tracker.New(tracker.Params{
			Store:     store,
			Fetcher:   fetch.NewClient(cfg.Fetch.Timeout, cfg.Fetch.UserAgent),
			URLs:      cfg.ProductURLs,
			Subject:   cfg.SMTP.Subject,
			Notifiers: notifiers,
			Producer:  producer,
			Cache:     summaryCache,
			Log:       log,
		})
		summary, err := t.Run(ctx, time.Now())
		if err != nil {
			log.Fatalw("tracking run failed", "error", err)
		}
		log.Infow("tracking run finished", "date", summary.Date, "outcomes", len(summary.Outcomes))
		if summary.ReportBody != "" && len(notifiers) == 0 {
			log.Infof("daily report:\n%s", summary.ReportBody)
		}
	}

	if !*serve {
		return
	}

	handler := api.NewHandler(store, summaryCache, cfg.ProductURLs)
	router := api.SetupRoutes(handler)
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		log.Infow("api listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("api server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("api shutdown failed", "error", err)
	}
}

func openStore(cfg *config.Config) (ledger.Store, func(), error) {
	switch cfg.Ledger.Backend {
	case config.BackendPostgres:
		store, err := ledger.OpenPostgres(cfg.Ledger.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Migrate(cfg.Ledger.MigrationsPath); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		return ledger.NewCSVStore(cfg.Ledger.CSVPath), func() {}, nil
	}
}
