package executor

import (
	"context"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/docstore"
)

func newCorpus(texts map[string]string) *docstore.Store {
	s := docstore.New()
	for id, text := range texts {
		s.Put(id, text)
	}
	return s
}

// TestSearchDeterminism runs the same query repeatedly over a fixed corpus
// and requires byte-identical rankings every time: both cat-documents score
// identically (same tf, same length), ordered by id, and the non-matching
// document never appears.
func TestSearchDeterminism(t *testing.T) {
	store := newCorpus(map[string]string{
		"doc1": "the cat sat",
		"doc2": "the cat ran",
		"doc3": "dogs bark loudly",
	})
	e := New(store)

	first := e.Execute(context.Background(), "cat", 10)
	if len(first.Results) != 2 {
		t.Fatalf("got %d results, want 2: %v", len(first.Results), first.Results)
	}
	if first.Results[0].DocID != "doc1" || first.Results[1].DocID != "doc2" {
		t.Errorf("order = %v, want [doc1 doc2]", first.Results)
	}
	if first.Results[0].Score != first.Results[1].Score {
		t.Errorf("equal-tf equal-length docs scored differently: %v", first.Results)
	}
	for _, r := range first.Results {
		if r.DocID == "doc3" {
			t.Error("non-matching document doc3 appeared in results")
		}
	}

	for i := 0; i < 20; i++ {
		again := e.Execute(context.Background(), "cat", 10)
		if len(again.Results) != len(first.Results) {
			t.Fatalf("run %d returned %d results, first run %d", i, len(again.Results), len(first.Results))
		}
		for j := range again.Results {
			if again.Results[j] != first.Results[j] {
				t.Fatalf("run %d diverged at %d: %v vs %v", i, j, again.Results[j], first.Results[j])
			}
		}
	}
}

func TestSearchUnknownToken(t *testing.T) {
	store := newCorpus(map[string]string{"doc1": "hello world"})
	e := New(store)

	result := e.Execute(context.Background(), "nonexistent", 10)
	if result.TotalHits != 0 || len(result.Results) != 0 {
		t.Errorf("unknown token produced hits: %+v", result)
	}
	if result.Results == nil {
		t.Error("Results is nil, want empty slice for JSON encoding")
	}
}

func TestSearchEmptyCorpus(t *testing.T) {
	e := New(docstore.New())
	result := e.Execute(context.Background(), "anything", 10)
	if result.TotalHits != 0 || len(result.Results) != 0 {
		t.Errorf("empty corpus produced hits: %+v", result)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	store := newCorpus(map[string]string{"doc1": "hello"})
	e := New(store)
	result := e.Execute(context.Background(), "   ... !!!   ", 10)
	if result.TotalHits != 0 || len(result.Results) != 0 {
		t.Errorf("punctuation-only query produced hits: %+v", result)
	}
}

// TestSearchQueryNormalisation verifies queries are pushed through the same
// tokenizer as documents, so case and punctuation differences still match.
func TestSearchQueryNormalisation(t *testing.T) {
	store := newCorpus(map[string]string{"doc1": "the cat sat"})
	e := New(store)

	for _, q := range []string{"cat", "CAT", "Cat!", `"cat"`} {
		result := e.Execute(context.Background(), q, 10)
		if len(result.Results) != 1 || result.Results[0].DocID != "doc1" {
			t.Errorf("query %q: results = %v, want doc1", q, result.Results)
		}
	}
}

// TestSearchDuplicateQueryTerms verifies a repeated query term is scored
// once, not accumulated per occurrence.
func TestSearchDuplicateQueryTerms(t *testing.T) {
	store := newCorpus(map[string]string{
		"doc1": "the cat sat",
		"doc2": "the cat ran",
	})
	e := New(store)

	single := e.Execute(context.Background(), "cat", 10)
	repeated := e.Execute(context.Background(), "cat cat cat", 10)

	if len(single.Results) != len(repeated.Results) {
		t.Fatalf("result counts differ: %d vs %d", len(single.Results), len(repeated.Results))
	}
	for i := range single.Results {
		if single.Results[i] != repeated.Results[i] {
			t.Errorf("repeated terms changed scoring: %v vs %v", single.Results[i], repeated.Results[i])
		}
	}
}

// TestSearchTopKIsPrefixOfFullRanking verifies limiting never reorders:
// the top-k results equal the first k of the unlimited ranking.
func TestSearchTopKIsPrefixOfFullRanking(t *testing.T) {
	store := newCorpus(map[string]string{
		"doc1": "search engine ranking",
		"doc2": "search engine",
		"doc3": "search ranking ranking search",
		"doc4": "engine",
		"doc5": "search",
	})
	e := New(store)

	full := e.Execute(context.Background(), "search ranking", 0)
	top2 := e.Execute(context.Background(), "search ranking", 2)

	if len(top2.Results) != 2 {
		t.Fatalf("limit 2 returned %d results", len(top2.Results))
	}
	if top2.TotalHits != full.TotalHits {
		t.Errorf("TotalHits changed under limit: %d vs %d", top2.TotalHits, full.TotalHits)
	}
	for i := range top2.Results {
		if top2.Results[i] != full.Results[i] {
			t.Errorf("top2[%d] = %v, full[%d] = %v", i, top2.Results[i], i, full.Results[i])
		}
	}
}

func TestSearchTotalHitsCountsUnion(t *testing.T) {
	store := newCorpus(map[string]string{
		"doc1": "alpha beta",
		"doc2": "alpha",
		"doc3": "beta",
		"doc4": "gamma",
	})
	e := New(store)

	result := e.Execute(context.Background(), "alpha beta", 1)
	if result.TotalHits != 3 {
		t.Errorf("TotalHits = %d, want 3 (union of matches)", result.TotalHits)
	}
	if len(result.Results) != 1 {
		t.Errorf("limit 1 returned %d results", len(result.Results))
	}
}
