package ranker

import (
	"math"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/indexer/index"
)

func lengths(m map[string]int) func(string) int {
	return func(docID string) int { return m[docID] }
}

// TestIDFUnsmoothed pins the exact IDF formula, including its behaviour for
// terms in more than half the corpus: the value goes negative rather than
// being clamped.
func TestIDFUnsmoothed(t *testing.T) {
	cases := []struct {
		totalDocs int
		docFreq   int
		want      float64
	}{
		{10, 1, math.Log(9.5 / 1.5)},
		{10, 5, math.Log(5.5 / 5.5)},
		{3, 2, math.Log(1.5 / 2.5)}, // negative: term in 2 of 3 docs
	}
	for _, tc := range cases {
		got := computeIDF(tc.totalDocs, tc.docFreq)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("computeIDF(%d, %d) = %v, want %v", tc.totalDocs, tc.docFreq, got, tc.want)
		}
	}

	if idf := computeIDF(3, 2); idf >= 0 {
		t.Errorf("idf for common term = %v, want negative", idf)
	}
}

func TestRankOrdering(t *testing.T) {
	// doc1 mentions the term twice in a short document, doc2 once in a long
	// one; doc1 must rank first.
	postings := map[string]index.PostingList{
		"cat": {
			{DocID: "doc1", Frequency: 2},
			{DocID: "doc2", Frequency: 1},
		},
	}
	params := RankParams{TotalDocs: 10, AvgDocLength: 6}
	docLens := lengths(map[string]int{"doc1": 4, "doc2": 12})

	ranked := Rank(postings, params, docLens, 0)
	if len(ranked) != 2 {
		t.Fatalf("got %d results, want 2", len(ranked))
	}
	if ranked[0].DocID != "doc1" || ranked[1].DocID != "doc2" {
		t.Errorf("order = [%s %s], want [doc1 doc2]", ranked[0].DocID, ranked[1].DocID)
	}
	if ranked[0].Score <= ranked[1].Score {
		t.Errorf("scores not descending: %v", ranked)
	}
}

// TestRankTieBreak verifies equal scores order by ascending document id.
func TestRankTieBreak(t *testing.T) {
	postings := map[string]index.PostingList{
		"term": {
			{DocID: "zeta", Frequency: 1},
			{DocID: "alpha", Frequency: 1},
			{DocID: "mid", Frequency: 1},
		},
	}
	params := RankParams{TotalDocs: 5, AvgDocLength: 3}
	docLens := lengths(map[string]int{"zeta": 3, "alpha": 3, "mid": 3})

	ranked := Rank(postings, params, docLens, 0)
	want := []string{"alpha", "mid", "zeta"}
	for i, id := range want {
		if ranked[i].DocID != id {
			t.Errorf("ranked[%d] = %s, want %s", i, ranked[i].DocID, id)
		}
		if ranked[i].Score != ranked[0].Score {
			t.Errorf("expected identical scores, got %v", ranked)
		}
	}
}

func TestRankMultiTermAccumulates(t *testing.T) {
	postings := map[string]index.PostingList{
		"cat": {{DocID: "doc1", Frequency: 1}, {DocID: "doc2", Frequency: 1}},
		"sat": {{DocID: "doc1", Frequency: 1}},
	}
	params := RankParams{TotalDocs: 10, AvgDocLength: 4}
	docLens := lengths(map[string]int{"doc1": 4, "doc2": 4})

	ranked := Rank(postings, params, docLens, 0)
	if ranked[0].DocID != "doc1" {
		t.Errorf("doc matching both terms should rank first, got %v", ranked)
	}
	if ranked[0].Score <= ranked[1].Score {
		t.Errorf("accumulated score not greater: %v", ranked)
	}
}

func TestRankLimit(t *testing.T) {
	postings := map[string]index.PostingList{
		"term": {
			{DocID: "a", Frequency: 3},
			{DocID: "b", Frequency: 2},
			{DocID: "c", Frequency: 1},
		},
	}
	params := RankParams{TotalDocs: 10, AvgDocLength: 5}
	docLens := lengths(map[string]int{"a": 5, "b": 5, "c": 5})

	full := Rank(postings, params, docLens, 0)
	top2 := Rank(postings, params, docLens, 2)

	if len(top2) != 2 {
		t.Fatalf("limit 2 returned %d results", len(top2))
	}
	// Truncation must be a prefix of the full ranking.
	for i := range top2 {
		if top2[i] != full[i] {
			t.Errorf("top2[%d] = %v, full[%d] = %v", i, top2[i], i, full[i])
		}
	}
}

func TestRankEmptyCorpus(t *testing.T) {
	postings := map[string]index.PostingList{
		"term": {{DocID: "ghost", Frequency: 1}},
	}
	if r := Rank(postings, RankParams{TotalDocs: 0, AvgDocLength: 0}, lengths(nil), 0); len(r) != 0 {
		t.Errorf("empty corpus produced results: %v", r)
	}
}

func TestRankRoundsToFourDecimals(t *testing.T) {
	postings := map[string]index.PostingList{
		"term": {{DocID: "doc1", Frequency: 3}},
	}
	params := RankParams{TotalDocs: 7, AvgDocLength: 4.2}
	ranked := Rank(postings, params, lengths(map[string]int{"doc1": 9}), 0)

	score := ranked[0].Score
	if math.Round(score*10000)/10000 != score {
		t.Errorf("score %v not rounded to 4 decimal places", score)
	}
}
