// Command storefront serves the headless-storefront API: catalog grid with
// filter/sort, live product detail, search, per-session cart and favorites,
// and the Shopify checkout handoff.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Cardenas2911/dtalles-jewelry/internal/catalog"
	"github.com/Cardenas2911/dtalles-jewelry/internal/checkout"
	"github.com/Cardenas2911/dtalles-jewelry/internal/config"
	"github.com/Cardenas2911/dtalles-jewelry/internal/httpapi"
	"github.com/Cardenas2911/dtalles-jewelry/internal/live"
	"github.com/Cardenas2911/dtalles-jewelry/internal/search"
	"github.com/Cardenas2911/dtalles-jewelry/internal/shopify"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()

	client := shopify.NewClient(shopify.Config{
		StoreDomain: cfg.StoreDomain,
		APIVersion:  cfg.APIVersion,
		AccessToken: cfg.StorefrontToken,
		Timeout:     cfg.RequestTimeout,
	}, log)
	if !client.Configured() {
		log.Warn("storefront api not configured, serving static data only")
	}

	snapshot := loadSnapshot(cfg, client, log)

	var newBackend httpapi.BackendFactory
	if cfg.RedisAddr != "" {
		newBackend = httpapi.RedisBackends(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
		log.Info("favorites persisted to redis", zap.String("addr", cfg.RedisAddr))
	} else {
		newBackend = httpapi.FileBackends(cfg.FavoritesDir)
		log.Info("favorites persisted to files", zap.String("dir", cfg.FavoritesDir))
	}
	sessions := httpapi.NewSessions(newBackend, func() *search.Searcher {
		return search.NewSearcher(client, 0, log)
	}, log)
	go evictIdleSessions(sessions, cfg.SessionTTL, log)

	handlers := httpapi.Handlers{
		Products:  httpapi.NewProductHandler(snapshot, live.NewRefresher(client, log), cfg.RequestTimeout, log),
		Cart:      httpapi.NewCartHandler(log),
		Favorites: httpapi.NewFavoritesHandler(log),
		Search:    httpapi.NewSearchHandler(log),
		Checkout:  httpapi.NewCheckoutHandler(checkout.NewHandoff(client, cfg.CheckoutHost, log), log),
	}

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: httpapi.NewRouter(sessions, handlers, cfg.RequestTimeout, log),
	}

	go func() {
		log.Info("storefront starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}

// evictIdleSessions periodically drops session state with no traffic for
// ttl, keeping the registry bounded.
func evictIdleSessions(sessions *httpapi.Sessions, ttl time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()
	for range ticker.C {
		if n := sessions.EvictIdle(ttl); n > 0 {
			log.Info("idle sessions evicted", zap.Int("count", n), zap.Int("remaining", sessions.Len()))
		}
	}
}

// loadSnapshot reads the prebuilt catalog file, falling back to a live
// catalog fetch and then to an empty catalog. A missing catalog degrades
// the grid, it never prevents startup.
func loadSnapshot(cfg *config.Config, client *shopify.Client, log *zap.Logger) *catalog.Snapshot {
	snapshot, err := catalog.LoadSnapshot(cfg.SnapshotPath)
	if err == nil {
		log.Info("catalog snapshot loaded", zap.String("path", cfg.SnapshotPath), zap.Int("products", snapshot.Len()))
		return snapshot
	}
	log.Warn("catalog snapshot file unavailable", zap.String("path", cfg.SnapshotPath), zap.Error(err))

	if client.Configured() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.RequestTimeout)
		defer cancel()
		products, err := client.AllProducts(ctx, 0)
		if err == nil {
			return catalog.NewSnapshot(products)
		}
		log.Warn("catalog fetch failed", zap.Error(err))
	}

	log.Warn("starting with an empty catalog")
	return catalog.NewSnapshot(nil)
}
