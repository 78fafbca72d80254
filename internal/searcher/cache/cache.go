// Package cache adds a Redis-backed result cache in front of query
// execution. Cache keys are derived from the normalised token set, so
// queries that tokenize identically share an entry regardless of raw
// spelling. All Redis traffic runs behind a circuit breaker and concurrent
// identical misses are collapsed with singleflight, so a slow or dead Redis
// degrades to plain in-memory execution instead of failing searches.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/resilience"
)

const keyPrefix = "search:"

// Stats are the cache's hit/miss counters since process start.
type Stats struct {
	Hits          int64  `json:"hits"`
	Misses        int64  `json:"misses"`
	Invalidations int64  `json:"invalidations"`
	BreakerState  string `json:"breaker_state"`
}

// QueryCache caches search results keyed by normalised query and limit.
type QueryCache struct {
	client  *redis.Client
	breaker *resilience.CircuitBreaker
	group   singleflight.Group
	ttl     time.Duration
	logger  *slog.Logger

	hits          atomic.Int64
	misses        atomic.Int64
	invalidations atomic.Int64
}

// New creates a QueryCache over the given Redis client. The client may come
// and go; the circuit breaker fences off connection failures.
func New(client *redis.Client, breaker *resilience.CircuitBreaker, ttl time.Duration) *QueryCache {
	return &QueryCache{
		client:  client,
		breaker: breaker,
		ttl:     ttl,
		logger:  slog.Default().With("component", "query-cache"),
	}
}

// Key derives the cache key for a query/limit pair. The query's distinct
// tokens are sorted before hashing so token order does not fragment entries.
func Key(query string, limit int) string {
	terms := tokenizer.Distinct(tokenizer.Tokenize(query))
	sort.Strings(terms)
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", strings.Join(terms, " "), limit)))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// GetOrCompute returns the cached result for the query, or runs compute and
// caches its outcome. The bool return reports whether this was a cache hit.
// Redis failures are swallowed: the computed result is always returned.
func (c *QueryCache) GetOrCompute(ctx context.Context, query string, limit int, compute func() executor.SearchResult) (executor.SearchResult, bool) {
	key := Key(query, limit)

	if cached, ok := c.lookup(ctx, key); ok {
		c.hits.Add(1)
		return cached, true
	}
	c.misses.Add(1)

	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		result := compute()
		c.store(ctx, key, result)
		return result, nil
	})
	return v.(executor.SearchResult), false
}

// Invalidate drops every cached search result. Called after any document
// mutation, since one write can change corpus statistics and with them the
// score of every cached query.
func (c *QueryCache) Invalidate(ctx context.Context) {
	c.invalidations.Add(1)
	err := c.breaker.Execute(func() error {
		_, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
		return err
	})
	if err != nil {
		c.logger.Warn("cache invalidation failed", "error", err)
	}
}

// Stats returns a snapshot of the cache counters.
func (c *QueryCache) Stats() Stats {
	return Stats{
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Invalidations: c.invalidations.Load(),
		BreakerState:  c.breaker.GetState().String(),
	}
}

func (c *QueryCache) lookup(ctx context.Context, key string) (executor.SearchResult, bool) {
	var raw string
	err := c.breaker.Execute(func() error {
		var err error
		raw, err = c.client.Get(ctx, key)
		if redis.IsNilError(err) {
			raw = ""
			return nil
		}
		return err
	})
	if err != nil || raw == "" {
		if err != nil {
			c.logger.Debug("cache lookup failed", "error", err)
		}
		return executor.SearchResult{}, false
	}

	var result executor.SearchResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		c.logger.Warn("corrupt cache entry dropped", "key", key, "error", err)
		return executor.SearchResult{}, false
	}
	return result, true
}

func (c *QueryCache) store(ctx context.Context, key string, result executor.SearchResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	err = c.breaker.Execute(func() error {
		return c.client.Set(ctx, key, payload, c.ttl)
	})
	if err != nil {
		c.logger.Debug("cache store failed", "error", err)
	}
}
