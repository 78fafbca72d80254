package analytics

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func feedSearch(t *testing.T, agg *Aggregator, ev SearchEvent) {
	t.Helper()
	ev.Type = EventTypeSearch
	value, _ := json.Marshal(ev)
	if err := agg.HandleMessage(context.Background(), []byte(ev.Query), value); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
}

func feedDocument(t *testing.T, agg *Aggregator, ev DocumentEvent) {
	t.Helper()
	value, _ := json.Marshal(ev)
	if err := agg.HandleMessage(context.Background(), []byte(ev.DocID), value); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
}

func TestAggregatorFoldsSearchEvents(t *testing.T) {
	agg := NewAggregator()

	feedSearch(t, agg, SearchEvent{Query: "cat", TotalHits: 2, CacheHit: false, DurationMS: 1.5})
	feedSearch(t, agg, SearchEvent{Query: "cat", TotalHits: 2, CacheHit: true, DurationMS: 0.2})
	feedSearch(t, agg, SearchEvent{Query: "dog", TotalHits: 0, DurationMS: 0.8})

	snap := agg.Snapshot(10)
	if snap.TotalSearches != 3 {
		t.Errorf("TotalSearches = %d, want 3", snap.TotalSearches)
	}
	if snap.CacheHits != 1 {
		t.Errorf("CacheHits = %d, want 1", snap.CacheHits)
	}
	if snap.ZeroResultQueries != 1 {
		t.Errorf("ZeroResultQueries = %d, want 1", snap.ZeroResultQueries)
	}
	if len(snap.TopQueries) != 2 || snap.TopQueries[0].Query != "cat" || snap.TopQueries[0].Count != 2 {
		t.Errorf("TopQueries = %v", snap.TopQueries)
	}
}

func TestAggregatorFoldsDocumentEvents(t *testing.T) {
	agg := NewAggregator()

	feedDocument(t, agg, DocumentEvent{Type: EventTypeIndexed, DocID: "a", OccurredAt: time.Now()})
	feedDocument(t, agg, DocumentEvent{Type: EventTypeReplaced, DocID: "a", OccurredAt: time.Now()})
	feedDocument(t, agg, DocumentEvent{Type: EventTypeDeleted, DocID: "a", OccurredAt: time.Now()})

	snap := agg.Snapshot(10)
	if snap.DocumentsIndexed != 2 {
		t.Errorf("DocumentsIndexed = %d, want 2 (insert + replace)", snap.DocumentsIndexed)
	}
	if snap.DocumentsDeleted != 1 {
		t.Errorf("DocumentsDeleted = %d, want 1", snap.DocumentsDeleted)
	}
}

func TestAggregatorUnknownEventType(t *testing.T) {
	agg := NewAggregator()
	if err := agg.HandleMessage(context.Background(), nil, []byte(`{"type":"mystery"}`)); err != nil {
		t.Errorf("unknown event type should be skipped, got error: %v", err)
	}
	if snap := agg.Snapshot(10); snap.TotalSearches != 0 {
		t.Errorf("unknown event mutated counters: %+v", snap)
	}
}

func TestAggregatorMalformedPayload(t *testing.T) {
	agg := NewAggregator()
	if err := agg.HandleMessage(context.Background(), nil, []byte(`{broken`)); err == nil {
		t.Error("malformed payload should return an error")
	}
}

func TestAggregatorTopN(t *testing.T) {
	agg := NewAggregator()
	for _, q := range []string{"a", "a", "a", "b", "b", "c"} {
		feedSearch(t, agg, SearchEvent{Query: q, TotalHits: 1})
	}
	snap := agg.Snapshot(2)
	if len(snap.TopQueries) != 2 {
		t.Fatalf("topN=2 returned %d queries", len(snap.TopQueries))
	}
	if snap.TopQueries[0].Query != "a" || snap.TopQueries[1].Query != "b" {
		t.Errorf("TopQueries = %v, want [a b]", snap.TopQueries)
	}
}
