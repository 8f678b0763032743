package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pizzeria/storefront/app"
	cartapp "github.com/pizzeria/storefront/app/cart"
	"github.com/pizzeria/storefront/app/catalog"
	"github.com/pizzeria/storefront/app/categories"
	"github.com/pizzeria/storefront/cart"
	"github.com/pizzeria/storefront/config"
	"github.com/pizzeria/storefront/database"
	"github.com/pizzeria/storefront/logger"
	"github.com/pizzeria/storefront/models"
	"github.com/pizzeria/storefront/session"
	"github.com/redis/go-redis/v9"
)

// menu is what every handler reads the catalog through.
type menu interface {
	catalog.ProductProvider
	categories.CategoryProvider
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	var products menu
	switch cfg.CatalogSource {
	case config.CatalogPostgres:
		db, err := database.Open(cfg.PostgresDSN(), cfg.IsDevelopment())
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		products = models.NewProductsRepository(db)
	default:
		products = models.NewStaticCatalog()
	}
	log.Info("catalog ready", slog.String("source", cfg.CatalogSource))

	var snapshots session.Snapshotter = session.NoopSnapshotter{}
	if cfg.SessionBackend == config.SessionRedis {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		rs, err := session.NewRedisSnapshotter(pingCtx, rdb, cfg.SessionTTL)
		cancel()
		if err != nil {
			return err
		}
		snapshots = rs
	}
	log.Info("sessions ready", slog.String("backend", cfg.SessionBackend), slog.Duration("ttl", cfg.SessionTTL))

	sessions := session.NewRegistry(snapshots, cfg.SessionTTL, log, cart.WithBounceDuration(cfg.CartBounce))
	go sessions.Run(ctx, cfg.SweepInterval)

	router := app.NewRouter(app.Handlers{
		Catalog:    catalog.NewCatalogHandler(products),
		Categories: categories.NewCategoryHandler(products),
		Cart:       cartapp.NewCartHandler(products, sessions, log, cfg.SessionTTL),
	}, log)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", slog.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
