package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Simplici0/decoquote/internal/cache"
	"github.com/Simplici0/decoquote/internal/catalog"
	"github.com/Simplici0/decoquote/internal/config"
	"github.com/Simplici0/decoquote/internal/db"
	"github.com/Simplici0/decoquote/internal/events"
	"github.com/Simplici0/decoquote/internal/logger"
	"github.com/Simplici0/decoquote/internal/migrations"
	"github.com/Simplici0/decoquote/internal/quote"
	"github.com/Simplici0/decoquote/internal/seed"
)

// application holds the wired dependencies so main can close them in order.
type application struct {
	log      *logrus.Logger
	db       *sql.DB
	redis    *cache.Client
	producer *events.Producer
	server   *http.Server
}

func main() {
	app, err := buildApplication(config.Load())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build app: %v\n", err)
		os.Exit(1)
	}

	go func() {
		app.log.WithField("address", app.server.Addr).Info("listening")
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.log.WithError(err).Fatal("server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	app.log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.log.WithError(err).Error("server forced to shutdown")
	}
	_ = app.producer.Close()
	_ = app.redis.Close()
	_ = app.db.Close()
}

func buildApplication(cfg config.Config) (*application, error) {
	log := logger.New(cfg.Logger)
	for _, w := range cfg.Warnings {
		log.Warn(w)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := migrations.Up(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("run database migrations: %w", err)
	}

	if cfg.IsDev() {
		stats, err := seed.Run(database, seed.Config{})
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
		log.WithFields(logrus.Fields{"inserts": stats.Inserts, "updates": stats.Updates}).Info("catalog seeded")
	}

	app := &application{log: log, db: database}
	srv := &server{db: database, log: log}

	switch cfg.CatalogSource {
	case config.CatalogHTTP:
		if cfg.Redis.Enabled() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			app.redis, err = cache.Connect(ctx, cfg.Redis, log)
			cancel()
			if err != nil {
				log.WithError(err).Warn("redis unavailable, upstream responses will not be cached")
			}
		}
		opts := catalog.HTTPOptions{
			BaseURL:  cfg.Upstream.BaseURL,
			Timeout:  cfg.Upstream.Timeout,
			Retries:  uint64(cfg.Upstream.Retries),
			Backoff:  cfg.Upstream.Backoff,
			CacheTTL: cfg.Upstream.CacheTTL,
		}
		if app.redis != nil {
			opts.Cache = app.redis
		}
		src, err := catalog.NewHTTPSource(opts, log)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("upstream catalog: %w", err)
		}
		srv.views = catalog.NewViewCache(src)
	default:
		src := catalog.NewSQLSource(database)
		srv.views = catalog.NewViewCache(src)
		srv.blankCosts = src
	}
	srv.redis = app.redis

	var publisher events.Publisher = events.Discard{}
	if cfg.Kafka.Enabled {
		app.producer, err = events.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.WithError(err).Warn("kafka unavailable, quote events are disabled")
		} else {
			publisher = app.producer
		}
	}

	srv.pricer = quote.NewPricer(srv.views)
	srv.quotes = quote.NewService(srv.pricer, quote.NewStore(database), publisher, log)

	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
	return app, nil
}
