package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/textquery/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/textquery/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/textquery/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/textquery/internal/searcher/handler"
	"github.com/Adithya-Monish-Kumar-K/textquery/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/textquery/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/textquery/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/textquery/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/textquery/pkg/middleware"
	pkgredis "github.com/Adithya-Monish-Kumar-K/textquery/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/textquery/pkg/resilience"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve word queries over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting query service", "port", cfg.Server.Port, "source", cfg.Source.Path)

	idx, err := buildIndex(cfg.Source.Path)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	m.IndexedLines.Set(float64(idx.LineCount()))
	m.IndexedTerms.Set(float64(idx.TermCount()))

	var (
		queryCache  *cache.QueryCache
		redisClient *pkgredis.Client
	)
	if cfg.Redis.Enabled {
		err = resilience.Retry(ctx, "redis connect", resilience.Backoff{Attempts: 3}, func(ctx context.Context) error {
			var err error
			redisClient, err = pkgredis.NewClient(ctx, cfg.Redis)
			return err
		})
		if err != nil {
			slog.Warn("redis unavailable, result caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			store := cache.Guarded(redisClient, resilience.NewBreaker("redis", resilience.BreakerConfig{}))
			queryCache = cache.New(store, cfg.Redis.CacheTTL, cache.Namespace(cfg.Source.Path, idx.LineCount()), m)
			slog.Info("result cache enabled",
				"addr", cfg.Redis.Addr,
				"ttl", cfg.Redis.CacheTTL,
			)
		}
	}

	exec := executor.New(idx, m, cfg.Search.MaxMatches)
	h := handler.New(exec, idx, queryCache, cfg.Search.MaxTerms)

	mux := http.NewServeMux()
	h.Register(mux)
	checker := newChecker(idx, redisClient)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	servers := []*http.Server{{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      wrap(mux, m, cfg.Server),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}}
	if cfg.Metrics.Enabled {
		servers = append(servers, metrics.NewServer(cfg.Metrics.Port, registry))
	}
	return runServers(ctx, cfg.Server.ShutdownTimeout, servers...)
}

// runServers serves until ctx ends or any server fails, then shuts all of
// them down.
func runServers(ctx context.Context, shutdownTimeout time.Duration, servers ...*http.Server) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			slog.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serving %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Error("server shutdown error", "addr", srv.Addr, "error", err)
			}
		}
		return nil
	})
	err := g.Wait()
	slog.Info("query service stopped")
	return err
}

// wrap applies the middleware chain, outermost first: request ID, metrics,
// timeout.
func wrap(next http.Handler, m *metrics.Metrics, cfg config.ServerConfig) http.Handler {
	next = middleware.Timeout(cfg.WriteTimeout)(next)
	next = middleware.Metrics(m)(next)
	return middleware.RequestID(next)
}

func newChecker(idx *index.LineIndex, redisClient *pkgredis.Client) *health.Checker {
	checker := health.NewChecker()
	checker.Register("line_index", func(context.Context) health.ComponentHealth {
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d lines, %d terms", idx.LineCount(), idx.TermCount()),
		}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "result cache disabled"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	return checker
}
