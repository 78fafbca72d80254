// Command server runs the document search service: an in-memory BM25 search
// engine with an HTTP API, optional Redis query caching, optional Kafka
// analytics, and optional PostgreSQL-backed API-key auth. Every external
// dependency degrades gracefully; the core index and search path need
// nothing but memory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/auth/apikey"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/auth/ratelimit"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/docstore"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/server"
	servermw "github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/server/middleware"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/metrics"
	pkgmw "github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/resilience"
)

const rateLimitPerWindow = 300

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	log := slog.Default().With("component", "main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := docstore.New()
	exec := executor.New(store)
	m := metrics.New()
	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		stats := store.Stats()
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d documents, %d tokens", stats.TotalDocs, stats.TotalTokens),
		}
	})

	// Redis query cache. Optional: a failed connection means searches just
	// run uncached.
	var queryCache *cache.QueryCache
	var redisClient *redis.Client
	err = resilience.Retry(ctx, "redis-connect", resilience.RetryConfig{MaxAttempts: 3}, func() error {
		var connErr error
		redisClient, connErr = redis.NewClient(cfg.Redis)
		return connErr
	})
	if err != nil {
		log.Warn("redis unavailable, query cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		breaker := resilience.NewCircuitBreaker("redis-cache", resilience.CircuitBreakerConfig{})
		breaker.OnStateChange(func(s resilience.State) {
			m.CircuitBreakerState.WithLabelValues("redis-cache").Set(float64(s))
		})
		queryCache = cache.New(redisClient, breaker, cfg.Redis.CacheTTL)
		checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
			if err := redisClient.Ping(ctx); err != nil {
				return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
		log.Info("query cache enabled", "ttl", cfg.Redis.CacheTTL)
	}

	// Kafka analytics pipeline. Optional: without brokers the service simply
	// stops emitting and aggregating usage events.
	var collector *analytics.Collector
	var aggregator *analytics.Aggregator
	if len(cfg.Kafka.Brokers) > 0 {
		searchProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.AnalyticsEvents)
		defer searchProducer.Close()
		documentProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.DocumentEvents)
		defer documentProducer.Close()
		collector = analytics.NewCollector(searchProducer, documentProducer, 1024)
		defer collector.Close()

		aggregator = analytics.NewAggregator()
		for _, topic := range []string{cfg.Kafka.Topics.AnalyticsEvents, cfg.Kafka.Topics.DocumentEvents} {
			consumer := kafka.NewConsumer(cfg.Kafka, topic, aggregator.HandleMessage)
			go func() {
				if err := consumer.Start(ctx); err != nil {
					log.Warn("analytics consumer stopped", "error", err)
				}
			}()
		}
		log.Info("analytics pipeline enabled",
			"search_topic", cfg.Kafka.Topics.AnalyticsEvents,
			"document_topic", cfg.Kafka.Topics.DocumentEvents,
		)
	}

	srv := server.New(cfg, store, exec, queryCache, collector, aggregator, m)
	mux := srv.Routes(checker)

	handler := http.Handler(mux)
	handler = pkgmw.Timeout(cfg.Server.WriteTimeout)(handler)
	handler = servermw.RateLimit(ratelimit.New(ctx, rateLimitPerWindow, cfg.Auth.RateLimitWindow))(handler)

	// API-key auth needs PostgreSQL. Enabled only when configured; a failed
	// connection is fatal in that case, since running open when the operator
	// asked for auth would be worse than not running.
	if cfg.Auth.Enabled {
		pgClient, err := postgres.New(cfg.Postgres)
		if err != nil {
			log.Error("auth enabled but postgres unavailable", "error", err)
			os.Exit(1)
		}
		defer pgClient.Close()
		validator, err := apikey.NewValidator(ctx, pgClient)
		if err != nil {
			log.Error("failed to initialise api key validator", "error", err)
			os.Exit(1)
		}
		handler = servermw.Auth(validator)(handler)
		checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
			if err := pgClient.DB.PingContext(ctx); err != nil {
				return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
		log.Info("api key authentication enabled")
	}

	handler = servermw.CORS(handler)
	handler = pkgmw.Metrics(m)(handler)
	handler = pkgmw.RequestID(handler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout + 5*time.Second,
	}

	var stopMetrics func(context.Context) error
	if cfg.Metrics.Enabled {
		stopMetrics = metrics.StartServer(cfg.Metrics.Port)
	}

	go func() {
		log.Info("server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", "error", err)
	}
	if stopMetrics != nil {
		if err := stopMetrics(shutdownCtx); err != nil {
			log.Error("metrics server shutdown error", "error", err)
		}
	}
	log.Info("shutdown complete")
}
