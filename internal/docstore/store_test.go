package docstore

import (
	"fmt"
	"sync"
	"testing"
)

func TestCreateAndGet(t *testing.T) {
	s := New()
	doc := s.Create("The cat sat on the mat.")

	if doc.ID == "" {
		t.Fatal("Create returned empty id")
	}
	if doc.WordCount != 6 {
		t.Errorf("WordCount = %d, want 6", doc.WordCount)
	}

	got, ok := s.Get(doc.ID)
	if !ok {
		t.Fatalf("Get(%s) not found", doc.ID)
	}
	if got != doc {
		t.Errorf("Get = %+v, want %+v", got, doc)
	}
}

func TestGetMissing(t *testing.T) {
	s := New()
	if _, ok := s.Get("nope"); ok {
		t.Error("Get on missing id reported found")
	}
}

// TestReplaceRetractsOldPostings verifies the full retract-then-insert
// contract: after replacing "x y" with "z", the old terms are gone from the
// index entirely and the statistics reflect only the new version.
func TestReplaceRetractsOldPostings(t *testing.T) {
	s := New()
	s.Put("doc1", "x y")
	s.Put("doc1", "z")

	for _, term := range []string{"x", "y"} {
		if snap := s.Snapshot([]string{term}); len(snap.Postings) != 0 {
			t.Errorf("term %q still indexed after replacement: %v", term, snap.Postings)
		}
	}

	snap := s.Snapshot([]string{"z"})
	if len(snap.Postings["z"]) != 1 || snap.Postings["z"][0].DocID != "doc1" {
		t.Errorf("term z postings = %v, want doc1", snap.Postings["z"])
	}

	stats := s.Stats()
	if stats.TotalDocs != 1 || stats.TotalTokens != 1 {
		t.Errorf("stats after replacement = %+v, want {1 1}", stats)
	}

	doc, _ := s.Get("doc1")
	if doc.Text != "z" || doc.WordCount != 1 {
		t.Errorf("document after replacement = %+v", doc)
	}
}

func TestDelete(t *testing.T) {
	s := New()
	doc := s.Create("hello world")

	if !s.Delete(doc.ID) {
		t.Fatal("Delete reported not found for existing document")
	}
	if _, ok := s.Get(doc.ID); ok {
		t.Error("document still retrievable after delete")
	}
	if stats := s.Stats(); stats.TotalDocs != 0 || stats.TotalTokens != 0 {
		t.Errorf("stats after delete = %+v, want zeros", stats)
	}
	if s.TermCount() != 0 {
		t.Errorf("TermCount = %d after delete, want 0", s.TermCount())
	}

	if s.Delete(doc.ID) {
		t.Error("second Delete reported found")
	}
}

func TestListSortedByID(t *testing.T) {
	s := New()
	s.Put("b", "two")
	s.Put("c", "three")
	s.Put("a", "one")

	docs := s.List()
	if len(docs) != 3 {
		t.Fatalf("List returned %d documents, want 3", len(docs))
	}
	for i, want := range []string{"a", "b", "c"} {
		if docs[i].ID != want {
			t.Errorf("List[%d].ID = %s, want %s", i, docs[i].ID, want)
		}
	}
}

func TestEmptyTextDocument(t *testing.T) {
	s := New()
	doc := s.Put("empty", "")

	if doc.WordCount != 0 {
		t.Errorf("WordCount = %d, want 0", doc.WordCount)
	}
	stats := s.Stats()
	if stats.TotalDocs != 1 {
		t.Errorf("TotalDocs = %d, want 1 (empty docs still count)", stats.TotalDocs)
	}
	if stats.TotalTokens != 0 {
		t.Errorf("TotalTokens = %d, want 0", stats.TotalTokens)
	}
}

// TestSnapshotConsistency verifies a snapshot carries matching postings,
// stats, and document lengths from a single instant.
func TestSnapshotConsistency(t *testing.T) {
	s := New()
	s.Put("doc1", "alpha beta gamma")
	s.Put("doc2", "alpha")

	snap := s.Snapshot([]string{"alpha", "unknown"})
	if len(snap.Postings) != 1 {
		t.Fatalf("snapshot postings = %v, want only alpha", snap.Postings)
	}
	if len(snap.Postings["alpha"]) != 2 {
		t.Errorf("alpha postings = %v, want 2 entries", snap.Postings["alpha"])
	}
	if snap.Stats.TotalDocs != 2 || snap.Stats.TotalTokens != 4 {
		t.Errorf("snapshot stats = %+v, want {2 4}", snap.Stats)
	}
	if snap.DocLengths["doc1"] != 3 || snap.DocLengths["doc2"] != 1 {
		t.Errorf("snapshot doc lengths = %v", snap.DocLengths)
	}
}

// TestConcurrentMutationsAndReads hammers the store from writers and readers
// simultaneously; run with -race to verify the consistency unit's locking.
func TestConcurrentMutationsAndReads(t *testing.T) {
	s := New()
	var wg sync.WaitGroup

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				id := fmt.Sprintf("doc-%d", i%10)
				s.Put(id, fmt.Sprintf("writer %d iteration %d common", w, i))
				if i%3 == 0 {
					s.Delete(id)
				}
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				snap := s.Snapshot([]string{"common", "writer"})
				for term, list := range snap.Postings {
					for _, p := range list {
						if _, ok := snap.DocLengths[p.DocID]; !ok {
							t.Errorf("snapshot missing length for %s (term %s)", p.DocID, term)
						}
					}
				}
				s.List()
				s.Stats()
			}
		}()
	}
	wg.Wait()

	// The counters must agree with a full rescan of what is left.
	stats := s.Stats()
	docs := s.List()
	if stats.TotalDocs != len(docs) {
		t.Errorf("TotalDocs = %d, but List has %d documents", stats.TotalDocs, len(docs))
	}
	total := 0
	for _, d := range docs {
		total += d.WordCount
	}
	if stats.TotalTokens != total {
		t.Errorf("TotalTokens = %d, but word counts sum to %d", stats.TotalTokens, total)
	}
}
