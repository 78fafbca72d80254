package index

import (
	"reflect"
	"testing"
)

func TestAddAndPostingsFor(t *testing.T) {
	ix := New()
	ix.Add("doc1", []string{"the", "cat", "sat", "the"})
	ix.Add("doc2", []string{"cat", "nap"})

	got := ix.PostingsFor("cat")
	want := PostingList{
		{DocID: "doc1", Frequency: 1},
		{DocID: "doc2", Frequency: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PostingsFor(cat) = %v, want %v", got, want)
	}

	got = ix.PostingsFor("the")
	want = PostingList{{DocID: "doc1", Frequency: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PostingsFor(the) = %v, want %v", got, want)
	}

	if p := ix.PostingsFor("missing"); len(p) != 0 {
		t.Errorf("PostingsFor(missing) = %v, want empty", p)
	}
}

func TestStatsConsistency(t *testing.T) {
	ix := New()
	ix.Add("doc1", []string{"a", "b", "c"})
	ix.Add("doc2", []string{"a", "a"})

	stats := ix.Stats()
	if stats.TotalDocs != 2 {
		t.Errorf("TotalDocs = %d, want 2", stats.TotalDocs)
	}
	if stats.TotalTokens != 5 {
		t.Errorf("TotalTokens = %d, want 5", stats.TotalTokens)
	}
	if avg := stats.AvgDocLength(); avg != 2.5 {
		t.Errorf("AvgDocLength = %v, want 2.5", avg)
	}

	ix.Remove("doc2", []string{"a", "a"})
	stats = ix.Stats()
	if stats.TotalDocs != 1 || stats.TotalTokens != 3 {
		t.Errorf("after remove: stats = %+v, want {1 3}", stats)
	}
}

// TestRemoveDeletesEmptyPostingLists verifies dead terms do not linger with
// empty lists, which would corrupt document-frequency counts.
func TestRemoveDeletesEmptyPostingLists(t *testing.T) {
	ix := New()
	ix.Add("doc1", []string{"x", "y"})
	ix.Add("doc2", []string{"y"})

	ix.Remove("doc1", []string{"x", "y"})

	if p := ix.PostingsFor("x"); len(p) != 0 {
		t.Errorf("PostingsFor(x) after removal = %v, want empty", p)
	}
	if ix.TermCount() != 1 {
		t.Errorf("TermCount = %d, want 1 (only %q should remain)", ix.TermCount(), "y")
	}
	if p := ix.PostingsFor("y"); len(p) != 1 || p[0].DocID != "doc2" {
		t.Errorf("PostingsFor(y) = %v, want only doc2", p)
	}
}

// TestZeroTokenDocument verifies that an empty document still counts toward
// the corpus totals, dragging the average document length down.
func TestZeroTokenDocument(t *testing.T) {
	ix := New()
	ix.Add("doc1", []string{"a", "b"})
	ix.Add("doc2", nil)

	stats := ix.Stats()
	if stats.TotalDocs != 2 {
		t.Errorf("TotalDocs = %d, want 2", stats.TotalDocs)
	}
	if avg := stats.AvgDocLength(); avg != 1.0 {
		t.Errorf("AvgDocLength = %v, want 1.0", avg)
	}
	if ix.DocLength("doc2") != 0 {
		t.Errorf("DocLength(doc2) = %d, want 0", ix.DocLength("doc2"))
	}

	ix.Remove("doc2", nil)
	if stats := ix.Stats(); stats.TotalDocs != 1 || stats.TotalTokens != 2 {
		t.Errorf("after removing empty doc: stats = %+v, want {1 2}", stats)
	}
}

func TestAvgDocLengthEmptyCorpus(t *testing.T) {
	if avg := New().Stats().AvgDocLength(); avg != 0 {
		t.Errorf("AvgDocLength on empty corpus = %v, want 0", avg)
	}
}

// TestPostingsForReturnsCopy verifies mutating a returned posting list does
// not corrupt the index.
func TestPostingsForReturnsCopy(t *testing.T) {
	ix := New()
	ix.Add("doc1", []string{"term"})

	postings := ix.PostingsFor("term")
	postings[0].Frequency = 999

	if got := ix.PostingsFor("term")[0].Frequency; got != 1 {
		t.Errorf("index posting mutated through returned copy: frequency = %d, want 1", got)
	}
}
