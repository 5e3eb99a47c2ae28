// Command fetch-proxy serves upstream URLs through a TTL disk (or Redis) cache.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sternrassler/fetchcache/pkg/cache"
	"github.com/Sternrassler/fetchcache/pkg/logging"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fetch-proxy: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.LogLevel(cfg.LogLevel)
	logCfg.Pretty = cfg.LogPretty
	logCfg.File = cfg.LogFile
	logging.Setup(logCfg)
	logger := logging.NewLogger("proxy")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	cacheLogger := logging.NewLogger("cache")
	c, err := cache.New(cache.Config{
		Dir:     cfg.CacheDir,
		TTL:     cfg.TTL,
		Fetcher: &cache.HTTPFetcher{
			Client:    &http.Client{Timeout: cfg.UpstreamTimeout},
			UserAgent: cfg.UserAgent,
		},
		Store:  store,
		Clock:  time.Now,
		Logger: &cacheLogger,
	})
	if err != nil {
		return fmt.Errorf("create cache: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(c, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("store", store.Name()).
			Str("cache_dir", cfg.CacheDir).
			Dur("ttl", cfg.TTL).
			Msg("Starting fetch proxy")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildStore returns the configured cache store and a function releasing it.
func buildStore(ctx context.Context, cfg Config) (cache.Store, func(), error) {
	switch cfg.Store {
	case storeRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisClient.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return cache.NewRedisStore(redisClient, cache.DefaultRedisPrefix), func() { redisClient.Close() }, nil
	default:
		return cache.NewFSStore(afero.NewOsFs()), func() {}, nil
	}
}
