// Package server wires the document and search APIs onto net/http. Handlers
// translate between the HTTP surface and the store/executor, attach metrics
// and analytics, and surface failures through the shared error taxonomy.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/docstore"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/tracing"
)

// Server bundles the handler dependencies. queryCache, collector, and
// aggregator may be nil; every handler degrades gracefully without them.
type Server struct {
	cfg        *config.Config
	store      *docstore.Store
	executor   *executor.Executor
	queryCache *cache.QueryCache
	collector  *analytics.Collector
	aggregator *analytics.Aggregator
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// New creates a Server over the given dependencies.
func New(cfg *config.Config, store *docstore.Store, exec *executor.Executor, qc *cache.QueryCache, col *analytics.Collector, agg *analytics.Aggregator, m *metrics.Metrics) *Server {
	return &Server{
		cfg:        cfg,
		store:      store,
		executor:   exec,
		queryCache: qc,
		collector:  col,
		aggregator: agg,
		metrics:    m,
		logger:     slog.Default().With("component", "server"),
	}
}

// handleCreateDocument stores a new document under a generated id.
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	text, appErr := s.decodeDocumentBody(r)
	if appErr != nil {
		s.writeError(w, r, appErr)
		return
	}

	doc := s.store.Create(text)
	s.afterMutation(r, analytics.EventTypeIndexed, doc)
	s.writeJSON(w, http.StatusOK, doc)
}

// handlePutDocument inserts or fully replaces the document at the given id.
func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	text, appErr := s.decodeDocumentBody(r)
	if appErr != nil {
		s.writeError(w, r, appErr)
		return
	}

	_, existed := s.store.Get(id)
	doc := s.store.Put(id, text)

	eventType := analytics.EventTypeIndexed
	if existed {
		eventType = analytics.EventTypeReplaced
	}
	s.afterMutation(r, eventType, doc)
	s.writeJSON(w, http.StatusOK, doc)
}

// handleGetDocument returns one document by id.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	doc, ok := s.store.Get(id)
	if !ok {
		s.writeError(w, r, apperrors.Newf(apperrors.ErrDocumentNotFound,
			http.StatusNotFound, "no document with id %q", id))
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

// handleDeleteDocument removes one document by id.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ok := s.store.Delete(id)
	if !ok {
		s.writeError(w, r, apperrors.Newf(apperrors.ErrDocumentNotFound,
			http.StatusNotFound, "no document with id %q", id))
		return
	}

	s.afterMutation(r, analytics.EventTypeDeleted, docstore.Document{ID: id})
	s.metrics.DocumentsDeleted.Inc()
	w.WriteHeader(http.StatusNoContent)
}

// handleListDocuments returns every live document, sorted by id.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.List())
}

// handleSearch executes a ranked query. The q parameter is required; limit
// defaults to the configured value and is capped at the configured maximum.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.metrics.SearchQueriesTotal.WithLabelValues("error").Inc()
		s.writeError(w, r, apperrors.New(apperrors.ErrInvalidInput,
			http.StatusBadRequest, "query parameter 'q' is required"))
		return
	}

	limit := s.cfg.Search.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.metrics.SearchQueriesTotal.WithLabelValues("error").Inc()
			s.writeError(w, r, apperrors.Newf(apperrors.ErrInvalidInput,
				http.StatusBadRequest, "query parameter 'limit' must be a positive integer, got %q", raw))
			return
		}
		limit = n
	}
	if limit > s.cfg.Search.MaxResults {
		limit = s.cfg.Search.MaxResults
	}

	ctx := r.Context()
	if s.cfg.Tracing.Enabled {
		var span *tracing.Span
		ctx, span = tracing.StartSpan(ctx, "search", middleware.GetRequestID(ctx))
		span.SetAttr("query", query)
		span.SetAttr("limit", limit)
		defer func() {
			span.End()
			span.Log()
		}()
	}

	start := time.Now()
	var result executor.SearchResult
	var cacheHit bool
	if s.queryCache != nil {
		result, cacheHit = s.queryCache.GetOrCompute(ctx, query, limit, func() executor.SearchResult {
			return s.executor.Execute(ctx, query, limit)
		})
	} else {
		result = s.executor.Execute(ctx, query, limit)
	}
	elapsed := time.Since(start)

	s.recordSearchMetrics(result, cacheHit, elapsed)
	s.collector.TrackSearch(analytics.SearchEvent{
		Query:      query,
		Limit:      limit,
		TotalHits:  result.TotalHits,
		Returned:   len(result.Results),
		CacheHit:   cacheHit,
		DurationMS: float64(elapsed.Microseconds()) / 1000,
		RequestID:  middleware.GetRequestID(ctx),
		OccurredAt: time.Now().UTC(),
	})

	logger.FromContext(ctx).Info("search completed",
		"query", query,
		"limit", limit,
		"total_hits", result.TotalHits,
		"returned", len(result.Results),
		"cache_hit", cacheHit,
		"duration_ms", elapsed.Milliseconds(),
	)
	s.writeJSON(w, http.StatusOK, result.Results)
}

// handleCacheStats reports the query cache's hit/miss counters.
func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	if s.queryCache == nil {
		s.writeJSON(w, http.StatusServiceUnavailable,
			map[string]string{"error": "query cache is not enabled"})
		return
	}
	s.writeJSON(w, http.StatusOK, s.queryCache.Stats())
}

// handleCacheInvalidate drops every cached search result.
func (s *Server) handleCacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if s.queryCache == nil {
		s.writeJSON(w, http.StatusServiceUnavailable,
			map[string]string{"error": "query cache is not enabled"})
		return
	}
	s.queryCache.Invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// decodeDocumentBody parses and validates a document request body.
func (s *Server) decodeDocumentBody(r *http.Request) (string, *apperrors.AppError) {
	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", apperrors.Newf(apperrors.ErrInvalidInput,
			http.StatusBadRequest, "malformed JSON body: %v", err)
	}
	appErr, text := s.validateDocumentRequest(req)
	if appErr != nil {
		return "", appErr
	}
	return text, nil
}

// afterMutation runs the shared post-write path: cache invalidation, index
// gauges, and the analytics event.
func (s *Server) afterMutation(r *http.Request, eventType string, doc docstore.Document) {
	if s.queryCache != nil {
		s.queryCache.Invalidate(r.Context())
	}

	stats := s.store.Stats()
	s.metrics.LiveDocuments.Set(float64(stats.TotalDocs))
	s.metrics.IndexedTokens.Set(float64(stats.TotalTokens))
	if eventType != analytics.EventTypeDeleted {
		s.metrics.DocumentsIndexed.Inc()
	}

	s.collector.TrackDocument(analytics.DocumentEvent{
		Type:       eventType,
		DocID:      doc.ID,
		WordCount:  doc.WordCount,
		OccurredAt: time.Now().UTC(),
	})
}

func (s *Server) recordSearchMetrics(result executor.SearchResult, cacheHit bool, elapsed time.Duration) {
	resultType := "hit"
	if result.TotalHits == 0 {
		resultType = "zero_result"
	}
	s.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()

	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
	}
	if s.queryCache == nil {
		cacheStatus = "disabled"
	}
	s.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(elapsed.Seconds())
	s.metrics.SearchResultsCount.Observe(float64(len(result.Results)))

	if cacheHit {
		s.metrics.CacheHitsTotal.Inc()
	} else if s.queryCache != nil {
		s.metrics.CacheMissesTotal.Inc()
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatusCode(err)
	message := err.Error()
	if appErr, ok := err.(*apperrors.AppError); ok {
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}

	s.writeJSON(w, status, map[string]any{
		"error":      message,
		"request_id": middleware.GetRequestID(r.Context()),
	})
}
