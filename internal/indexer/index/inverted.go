// Package index implements the in-memory inverted index: a mapping from each
// distinct term to the set of documents containing it, together with the
// corpus statistics BM25 needs.
//
// Inverted is deliberately not self-locking. It forms one half of the
// store+index consistency unit and is guarded by the owning document store's
// readers-writer lock, so that no caller can ever observe the index and the
// store disagreeing about which documents are live.
package index

import "sort"

// Inverted maps terms to posting lists and tracks per-document lengths plus
// corpus totals.
type Inverted struct {
	postings    map[string]map[string]*Posting
	docLengths  map[string]int
	totalDocs   int
	totalTokens int
}

// New creates an empty index.
func New() *Inverted {
	return &Inverted{
		postings:   make(map[string]map[string]*Posting),
		docLengths: make(map[string]int),
	}
}

// Add indexes a document's token multiset. A document with zero tokens
// contributes no postings but still counts toward TotalDocs, so it weighs
// into the average document length as a zero-length document.
//
// The caller must not Add a document id that is already present; replacement
// goes through Remove first with the exact token multiset originally added.
func (ix *Inverted) Add(docID string, tokens []string) {
	for term, freq := range termFrequencies(tokens) {
		list, ok := ix.postings[term]
		if !ok {
			list = make(map[string]*Posting)
			ix.postings[term] = list
		}
		list[docID] = &Posting{DocID: docID, Frequency: freq}
	}
	ix.docLengths[docID] = len(tokens)
	ix.totalDocs++
	ix.totalTokens += len(tokens)
}

// Remove retracts a document's postings. tokens must be the exact multiset
// passed to Add for this document; the owning store supplies the cached
// tokens of the prior version rather than re-tokenizing old text. Posting
// lists that become empty are deleted so dead terms never linger in
// document-frequency counts.
func (ix *Inverted) Remove(docID string, tokens []string) {
	for term := range termFrequencies(tokens) {
		list, ok := ix.postings[term]
		if !ok {
			continue
		}
		delete(list, docID)
		if len(list) == 0 {
			delete(ix.postings, term)
		}
	}
	delete(ix.docLengths, docID)
	ix.totalDocs--
	ix.totalTokens -= len(tokens)
}

// PostingsFor returns a copy of the term's posting list, sorted by document
// id, or an empty list for unknown terms.
func (ix *Inverted) PostingsFor(term string) PostingList {
	list, ok := ix.postings[term]
	if !ok {
		return nil
	}
	result := make(PostingList, 0, len(list))
	for _, posting := range list {
		result = append(result, *posting)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DocID < result[j].DocID
	})
	return result
}

// DocLength returns the token count recorded for a document, 0 if unknown.
func (ix *Inverted) DocLength(docID string) int {
	return ix.docLengths[docID]
}

// Stats returns a snapshot of the corpus counters.
func (ix *Inverted) Stats() Stats {
	return Stats{
		TotalDocs:   ix.totalDocs,
		TotalTokens: ix.totalTokens,
	}
}

// TermCount returns the number of distinct terms with at least one posting.
func (ix *Inverted) TermCount() int {
	return len(ix.postings)
}

// termFrequencies folds an ordered token sequence into per-term counts.
func termFrequencies(tokens []string) map[string]int {
	freqs := make(map[string]int, len(tokens))
	for _, token := range tokens {
		freqs[token]++
	}
	return freqs
}
