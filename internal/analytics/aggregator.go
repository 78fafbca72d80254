package analytics

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/kafka"
)

// maxLatencySamples bounds the sliding latency window the aggregator keeps
// for percentile estimation.
const maxLatencySamples = 10000

// QueryCount is one entry in the top-queries ranking.
type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Snapshot is the aggregated analytics view served by GET /analytics.
type Snapshot struct {
	TotalSearches     int64        `json:"total_searches"`
	CacheHits         int64        `json:"cache_hits"`
	ZeroResultQueries int64        `json:"zero_result_queries"`
	DocumentsIndexed  int64        `json:"documents_indexed"`
	DocumentsDeleted  int64        `json:"documents_deleted"`
	LatencyP50MS      float64      `json:"latency_p50_ms"`
	LatencyP95MS      float64      `json:"latency_p95_ms"`
	LatencyP99MS      float64      `json:"latency_p99_ms"`
	TopQueries        []QueryCount `json:"top_queries"`
	GeneratedAt       time.Time    `json:"generated_at"`
}

// Aggregator consumes the analytics topic and folds events into running
// counters, a bounded latency window, and per-query counts.
type Aggregator struct {
	mu                sync.RWMutex
	totalSearches     int64
	cacheHits         int64
	zeroResultQueries int64
	documentsIndexed  int64
	documentsDeleted  int64
	latencies         []float64
	queryCounts       map[string]int64
	logger            *slog.Logger
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		queryCounts: make(map[string]int64),
		logger:      slog.Default().With("component", "analytics-aggregator"),
	}
}

// HandleMessage is the kafka.MessageHandler for the analytics topic. It
// peeks at the type discriminator and dispatches to the matching fold.
func (a *Aggregator) HandleMessage(ctx context.Context, key, value []byte) error {
	header, err := kafka.DecodeJSON[struct {
		Type string `json:"type"`
	}](value)
	if err != nil {
		return err
	}

	switch header.Type {
	case EventTypeSearch:
		ev, err := kafka.DecodeJSON[SearchEvent](value)
		if err != nil {
			return err
		}
		a.foldSearch(ev)
	case EventTypeIndexed, EventTypeReplaced, EventTypeDeleted:
		ev, err := kafka.DecodeJSON[DocumentEvent](value)
		if err != nil {
			return err
		}
		a.foldDocument(ev)
	default:
		a.logger.Warn("unknown analytics event type", "type", header.Type)
	}
	return nil
}

func (a *Aggregator) foldSearch(ev SearchEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.totalSearches++
	if ev.CacheHit {
		a.cacheHits++
	}
	if ev.TotalHits == 0 {
		a.zeroResultQueries++
	}
	a.queryCounts[ev.Query]++
	a.latencies = append(a.latencies, ev.DurationMS)
	if len(a.latencies) > maxLatencySamples {
		a.latencies = a.latencies[len(a.latencies)-maxLatencySamples:]
	}
}

func (a *Aggregator) foldDocument(ev DocumentEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch ev.Type {
	case EventTypeDeleted:
		a.documentsDeleted++
	default:
		a.documentsIndexed++
	}
}

// Snapshot computes the current aggregated view.
func (a *Aggregator) Snapshot(topN int) Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	sorted := make([]float64, len(a.latencies))
	copy(sorted, a.latencies)
	sort.Float64s(sorted)

	top := make([]QueryCount, 0, len(a.queryCounts))
	for q, n := range a.queryCounts {
		top = append(top, QueryCount{Query: q, Count: n})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Query < top[j].Query
	})
	if topN > 0 && len(top) > topN {
		top = top[:topN]
	}

	return Snapshot{
		TotalSearches:     a.totalSearches,
		CacheHits:         a.cacheHits,
		ZeroResultQueries: a.zeroResultQueries,
		DocumentsIndexed:  a.documentsIndexed,
		DocumentsDeleted:  a.documentsDeleted,
		LatencyP50MS:      percentile(sorted, 0.50),
		LatencyP95MS:      percentile(sorted, 0.95),
		LatencyP99MS:      percentile(sorted, 0.99),
		TopQueries:        top,
		GeneratedAt:       time.Now().UTC(),
	}
}

// percentile reads the p-th percentile from an ascending-sorted sample.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
