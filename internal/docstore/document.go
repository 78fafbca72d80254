package docstore

// Document is the canonical record for one stored text. WordCount always
// equals the number of tokens the tokenizer produces for Text; it is
// recomputed on every write and never mutated independently.
type Document struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
}
