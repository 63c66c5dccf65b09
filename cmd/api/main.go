package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rockshoes/cart-service/api/routes"
	"github.com/rockshoes/cart-service/internal/cart"
	"github.com/rockshoes/cart-service/internal/cartstore"
	"github.com/rockshoes/cart-service/internal/inventory"
	"github.com/rockshoes/cart-service/internal/notify"
	"github.com/rockshoes/cart-service/pkg/config"
	"github.com/rockshoes/cart-service/pkg/db"
	"github.com/rockshoes/cart-service/pkg/logger"
	"github.com/rockshoes/cart-service/pkg/metrics"
	"github.com/rockshoes/cart-service/pkg/migrate"
	"github.com/rockshoes/cart-service/pkg/pubsub"
	"github.com/rockshoes/cart-service/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, closeStore, err := buildSnapshotStore(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap snapshot store", err)
		os.Exit(1)
	}
	defer closeStore()

	inventoryClient, err := inventory.NewHTTPClient(cfg.Inventory.BaseURL, inventory.WithTimeout(cfg.Inventory.Timeout))
	if err != nil {
		logg.Error(context.Background(), "failed to build inventory client", err)
		os.Exit(1)
	}

	notifier, closeNotifier, err := buildNotifier(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build notifier", err)
		os.Exit(1)
	}
	defer closeNotifier()

	registry := prometheus.NewRegistry()
	cartMetrics := metrics.NewCartMetrics(registry)

	manager, err := cart.NewManager(inventoryClient, store, notifier, cartMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart manager", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(manager)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":           cfg.App.Env,
		"addr":          addr,
		"store_backend": cfg.Cart.StoreBackend,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, store, cartService, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// buildSnapshotStore wires the configured snapshot backend. The SQL backend
// also runs dev auto-migrations so cart_snapshots exists before first use.
func buildSnapshotStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (cartstore.Store, func(), error) {
	switch cfg.Cart.StoreBackend {
	case config.StoreBackendSQL:
		dbClient, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, nil, err
		}
		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			_ = dbClient.Close()
			return nil, nil, err
		}
		store, err := cartstore.NewSQLStore(dbClient.DB(), cfg.Cart.SnapshotNamespace)
		if err != nil {
			_ = dbClient.Close()
			return nil, nil, err
		}
		closeFn := func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(ctx, "error closing database", err)
			}
		}
		return store, closeFn, nil

	default:
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, nil, err
		}
		store, err := cartstore.NewRedisStore(redisClient)
		if err != nil {
			_ = redisClient.Close()
			return nil, nil, err
		}
		closeFn := func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(ctx, "error closing redis", err)
			}
		}
		return store, closeFn, nil
	}
}

// buildNotifier prefers Pub/Sub when a GCP project is configured and falls
// back to the log notifier otherwise.
func buildNotifier(ctx context.Context, cfg *config.Config, logg *logger.Logger) (notify.Notifier, func(), error) {
	if cfg.GCP.ProjectID == "" {
		return notify.NewLogNotifier(logg), func() {}, nil
	}

	psClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := psClient.Close(); err != nil {
			logg.Error(ctx, "error closing pubsub", err)
		}
	}
	return notify.NewPubSubNotifier(psClient.NotificationPublisher(), logg), closeFn, nil
}
