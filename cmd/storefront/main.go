package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/tinythreads/storefront/internal/api"
	"github.com/tinythreads/storefront/internal/config"
	"github.com/tinythreads/storefront/internal/guard"
	"github.com/tinythreads/storefront/internal/logging"
	"github.com/tinythreads/storefront/internal/metrics"
	"github.com/tinythreads/storefront/internal/session"
)

func main() {
	// A local .env is optional.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("storefront: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.New("storefront", cfg.Log.Level)

	httpClient := &http.Client{Timeout: cfg.API.Timeout}
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		m := metrics.New(reg)
		httpClient.Transport = m.Transport(nil)

		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				logger.Warn().Err(err).Msg("metrics listener stopped")
			}
		}()
	}

	client, err := api.New(api.Config{
		BaseURL:    cfg.API.BaseURL,
		HTTPClient: httpClient,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build API client")
	}

	var store session.Store
	if cfg.Session.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Session.RedisAddr})
		store = session.NewRedisStore(rdb, "default", 0)
	} else {
		store = session.NewFileStore(cfg.Session.File)
	}

	routes, err := guard.LoadRoutesOrDefault(cfg.Guard.RoutesFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load route table")
	}

	provider := session.NewMemoryStore()
	a := &app{
		client:   client,
		store:    store,
		provider: provider,
		guard:    guard.New(provider, guard.WithRoutes(routes)),
		logger:   logger,
		out:      os.Stdout,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := a.run(ctx, os.Args[1:]); err != nil {
		os.Stderr.WriteString("storefront: " + err.Error() + "\n")
		os.Exit(1)
	}
}
