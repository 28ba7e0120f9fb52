package rag

// RetrievalResult is a ranked chunk reference. Transient, never persisted.
type RetrievalResult struct {
	ChunkID    string  `json:"chunk_id"`
	NoteID     string  `json:"note_id"`
	NoteTitle  string  `json:"note_title"`
	Heading    string  `json:"heading,omitempty"`
	ChunkIndex int     `json:"chunk_index"`
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"` // Always in [0, 1]
}

// Citation points back to the source note/section of included context.
type Citation struct {
	Title   string `json:"title"`
	Heading string `json:"heading,omitempty"`
}

// ChatContext is an assembled, token-bounded context block with its citations.
// An empty Context signals the caller to fall back to a generic prompt.
type ChatContext struct {
	Context   string     `json:"context"`
	Citations []Citation `json:"citations"`
}
