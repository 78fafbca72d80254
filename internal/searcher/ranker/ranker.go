// Package ranker scores candidate documents with BM25.
//
// The inverse document frequency follows the classic Robertson / Sparck Jones
// form ln((N - df + 0.5) / (df + 0.5)) without the +1 smoothing some
// implementations add. The unsmoothed form goes negative for terms appearing
// in more than half the corpus, which deliberately pushes documents that only
// match very common terms below documents matching rarer ones.
package ranker

import (
	"math"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/indexer/index"
)

// BM25 free parameters. k1 controls term-frequency saturation, b controls
// document-length normalisation.
const (
	K1 = 1.5
	B  = 0.75
)

// ScoredDoc is one ranked search hit.
type ScoredDoc struct {
	DocID string  `json:"id"`
	Score float64 `json:"score"`
}

// RankParams carries the corpus statistics scoring needs, captured in the
// same snapshot as the posting lists being scored.
type RankParams struct {
	TotalDocs    int
	AvgDocLength float64
}

// Rank scores the union of documents appearing in any posting list and
// returns up to limit hits ordered by descending score, ties broken by
// ascending document id. A limit <= 0 returns the full ranking.
//
// An AvgDocLength of 0 means the corpus holds no tokens at all, so nothing
// can match and the result is empty.
func Rank(postings map[string]index.PostingList, params RankParams, docLength func(string) int, limit int) []ScoredDoc {
	if params.AvgDocLength == 0 {
		return nil
	}

	scores := make(map[string]float64)
	for _, list := range postings {
		idf := computeIDF(params.TotalDocs, len(list))
		for _, p := range list {
			norm := computeTFNorm(p.Frequency, docLength(p.DocID), params.AvgDocLength)
			scores[p.DocID] += idf * norm
		}
	}

	ranked := make([]ScoredDoc, 0, len(scores))
	for docID, score := range scores {
		ranked = append(ranked, ScoredDoc{
			DocID: docID,
			Score: math.Round(score*10000) / 10000,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].DocID < ranked[j].DocID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// computeIDF is ln((N - df + 0.5) / (df + 0.5)). Negative when df > N/2.
func computeIDF(totalDocs, docFreq int) float64 {
	return math.Log((float64(totalDocs) - float64(docFreq) + 0.5) / (float64(docFreq) + 0.5))
}

// computeTFNorm is the BM25 term-frequency component with length
// normalisation: f*(k1+1) / (f + k1*(1 - b + b*|d|/avgdl)).
func computeTFNorm(freq, docLen int, avgDocLen float64) float64 {
	f := float64(freq)
	return f * (K1 + 1) / (f + K1*(1-B+B*float64(docLen)/avgDocLen))
}
