package index

// Posting records one term's occurrence count within one document.
type Posting struct {
	DocID     string `json:"doc_id"`
	Frequency int    `json:"frequency"`
}

// PostingList holds every posting for a single term across the corpus. Its
// length is the term's document frequency.
type PostingList []Posting

// Stats are the corpus-wide counters needed for BM25 scoring. They are
// maintained incrementally and must always equal the values that a full
// rescan of the live documents would produce.
type Stats struct {
	TotalDocs   int `json:"total_docs"`
	TotalTokens int `json:"total_tokens"`
}

// AvgDocLength returns the mean token count per live document, defined as 0
// for an empty corpus.
func (s Stats) AvgDocLength() float64 {
	if s.TotalDocs == 0 {
		return 0
	}
	return float64(s.TotalTokens) / float64(s.TotalDocs)
}
