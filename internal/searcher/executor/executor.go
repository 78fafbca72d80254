// Package executor turns a free-text query into a ranked result set. It
// tokenizes the query with the same policy used at ingestion time, captures a
// consistent snapshot of the relevant posting lists and corpus statistics,
// and hands the snapshot to the BM25 ranker.
package executor

import (
	"context"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/docstore"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/tracing"
)

// SearchResult is the outcome of one query execution. TotalHits counts every
// document matching at least one query term, before the limit is applied.
type SearchResult struct {
	Query     string             `json:"query"`
	TotalHits int                `json:"total_hits"`
	Results   []ranker.ScoredDoc `json:"results"`
}

// Executor executes search queries against a document store.
type Executor struct {
	store  *docstore.Store
	logger *slog.Logger
}

// New creates an Executor bound to the given store.
func New(store *docstore.Store) *Executor {
	return &Executor{
		store:  store,
		logger: slog.Default().With("component", "executor"),
	}
}

// Execute runs a query and returns up to limit ranked hits. A query whose
// tokens all miss the index, or an empty corpus, yields an empty result set
// rather than an error. Scoring runs entirely on a snapshot, outside the
// store's lock.
func (e *Executor) Execute(ctx context.Context, query string, limit int) SearchResult {
	result := SearchResult{
		Query:   query,
		Results: []ranker.ScoredDoc{},
	}

	terms := tokenizer.Distinct(tokenizer.Tokenize(query))
	if len(terms) == 0 {
		return result
	}

	snap := e.snapshot(ctx, terms)
	if len(snap.Postings) == 0 {
		return result
	}

	matched := make(map[string]struct{})
	for _, list := range snap.Postings {
		for _, p := range list {
			matched[p.DocID] = struct{}{}
		}
	}
	result.TotalHits = len(matched)

	params := ranker.RankParams{
		TotalDocs:    snap.Stats.TotalDocs,
		AvgDocLength: snap.Stats.AvgDocLength(),
	}
	docLength := func(docID string) int {
		return snap.DocLengths[docID]
	}

	if span := tracing.SpanFromContext(ctx); span != nil {
		_, rankSpan := tracing.StartChildSpan(ctx, "bm25.rank")
		result.Results = ranker.Rank(snap.Postings, params, docLength, limit)
		rankSpan.SetAttr("candidates", result.TotalHits)
		rankSpan.SetAttr("returned", len(result.Results))
		rankSpan.End()
	} else {
		result.Results = ranker.Rank(snap.Postings, params, docLength, limit)
	}

	e.logger.Debug("query executed",
		"query", query,
		"terms", len(terms),
		"total_hits", result.TotalHits,
		"returned", len(result.Results),
	)
	return result
}

func (e *Executor) snapshot(ctx context.Context, terms []string) docstore.QuerySnapshot {
	if span := tracing.SpanFromContext(ctx); span != nil {
		_, snapSpan := tracing.StartChildSpan(ctx, "index.snapshot")
		defer snapSpan.End()
		snap := e.store.Snapshot(terms)
		snapSpan.SetAttr("matched_terms", len(snap.Postings))
		return snap
	}
	return e.store.Snapshot(terms)
}
