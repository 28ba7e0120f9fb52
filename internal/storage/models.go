package storage

import "time"

// NoteRecord represents a note in the database.
type NoteRecord struct {
	ID        string // UUID
	OwnerID   string // Owner partition key; every query is scoped by it
	Title     string
	Content   string
	IsDeleted bool // Soft-delete flag; deleted notes are invisible to the pipeline
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChunkRecord represents a chunk of note text, the unit of retrieval.
type ChunkRecord struct {
	ID         string    // Deterministic: "{noteID}_chunk_{index}"
	NoteID     string
	OwnerID    string
	ChunkIndex int       // Zero-based emission order within the note
	Heading    string    // Nearest preceding markdown heading, "" when none
	Content    string    // Trimmed, always longer than 20 characters
	Embedding  []float32 // Empty when embeddings are disabled, otherwise provider-dimensional
	CreatedAt  time.Time
}

// Candidate is a chunk joined with its parent note's title, as fetched for scoring.
type Candidate struct {
	Chunk     ChunkRecord
	NoteTitle string
}
