package indexer

// Chunk represents a bounded slice of a note's text, the unit of retrieval.
type Chunk struct {
	ID      string // Deterministic: "{noteID}_chunk_{index}"
	NoteID  string
	Index   int    // Emission order within the note (starts at 0)
	Heading string // Nearest preceding markdown heading, "" when none seen yet
	Content string // Trimmed chunk text
}
