package analytics

import "time"

// Event type discriminators carried in the Kafka message payloads.
const (
	EventTypeSearch   = "search"
	EventTypeIndexed  = "document_indexed"
	EventTypeReplaced = "document_replaced"
	EventTypeDeleted  = "document_deleted"
)

// SearchEvent records one executed query for offline analysis.
type SearchEvent struct {
	Type       string    `json:"type"`
	Query      string    `json:"query"`
	Limit      int       `json:"limit"`
	TotalHits  int       `json:"total_hits"`
	Returned   int       `json:"returned"`
	CacheHit   bool      `json:"cache_hit"`
	DurationMS float64   `json:"duration_ms"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// DocumentEvent records one document mutation.
type DocumentEvent struct {
	Type       string    `json:"type"`
	DocID      string    `json:"doc_id"`
	WordCount  int       `json:"word_count"`
	OccurredAt time.Time `json:"occurred_at"`
}
