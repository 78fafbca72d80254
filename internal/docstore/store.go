// Package docstore owns the canonical document records and keeps the
// inverted index consistent with them. The store's readers-writer lock
// guards documents, postings, and corpus statistics as one consistency
// unit: mutations hold the write lock across the whole retract-then-insert
// sequence, and queries copy everything they need under a single read lock.
package docstore

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/indexer/tokenizer"
)

// record pairs a document with the cached token multiset its postings were
// built from. The cached tokens are what Remove gets during replacement, so
// retraction always matches what was indexed even if the tokenizer policy
// were to change between writes.
type record struct {
	doc    Document
	tokens []string
}

// Store is the combined document store and inverted index.
type Store struct {
	mu     sync.RWMutex
	docs   map[string]*record
	index  *index.Inverted
	logger *slog.Logger
}

// New creates an empty store. Each Store is fully isolated; tests construct
// their own instances.
func New() *Store {
	return &Store{
		docs:   make(map[string]*record),
		index:  index.New(),
		logger: slog.Default().With("component", "docstore"),
	}
}

// Create stores text under a fresh uuid-v4 id and returns the new document.
func (s *Store) Create(text string) Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(uuid.NewString(), text)
}

// Put inserts or fully replaces the document with the given id. When a prior
// version exists its postings are retracted first, using the cached tokens,
// before the new version is tokenized and indexed. Both halves happen under
// one write lock so no reader observes a partially replaced document.
func (s *Store) Put(id, text string) Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(id, text)
}

// put performs the retract-then-insert sequence. Caller holds the write lock.
func (s *Store) put(id, text string) Document {
	if prev, ok := s.docs[id]; ok {
		s.index.Remove(id, prev.tokens)
	}
	tokens := tokenizer.Tokenize(text)
	s.index.Add(id, tokens)

	rec := &record{
		doc: Document{
			ID:        id,
			Text:      text,
			WordCount: len(tokens),
		},
		tokens: tokens,
	}
	s.docs[id] = rec

	s.logger.Debug("document stored",
		"doc_id", id,
		"word_count", len(tokens),
	)
	return rec.doc
}

// Get returns a snapshot copy of the document, if present.
func (s *Store) Get(id string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.docs[id]
	if !ok {
		return Document{}, false
	}
	return rec.doc, true
}

// Delete removes a document and retracts its postings, reporting whether it
// existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.docs[id]
	if !ok {
		return false
	}
	s.index.Remove(id, rec.tokens)
	delete(s.docs, id)

	s.logger.Debug("document deleted", "doc_id", id)
	return true
}

// List returns snapshot copies of all live documents, sorted by id.
func (s *Store) List() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]Document, 0, len(s.docs))
	for _, rec := range s.docs {
		docs = append(docs, rec.doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ID < docs[j].ID
	})
	return docs
}

// Stats returns the current corpus statistics.
func (s *Store) Stats() index.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Stats()
}

// TermCount returns the number of distinct indexed terms.
func (s *Store) TermCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.TermCount()
}

// QuerySnapshot is a consistent view of everything one query needs: posting
// lists for each requested term, corpus statistics, and the lengths of every
// candidate document. It is captured under a single read lock, so scoring
// happens against one observable instant of the corpus.
type QuerySnapshot struct {
	Postings   map[string]index.PostingList
	Stats      index.Stats
	DocLengths map[string]int
}

// Snapshot gathers posting-list copies and statistics for the given distinct
// terms. Terms with no postings are omitted from the result map.
func (s *Store) Snapshot(terms []string) QuerySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := QuerySnapshot{
		Postings:   make(map[string]index.PostingList, len(terms)),
		Stats:      s.index.Stats(),
		DocLengths: make(map[string]int),
	}
	for _, term := range terms {
		postings := s.index.PostingsFor(term)
		if len(postings) == 0 {
			continue
		}
		snap.Postings[term] = postings
		for _, p := range postings {
			if _, ok := snap.DocLengths[p.DocID]; !ok {
				snap.DocLengths[p.DocID] = s.index.DocLength(p.DocID)
			}
		}
	}
	return snap
}
