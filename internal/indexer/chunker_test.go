package indexer

import (
	"fmt"
	"strings"
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{name: "empty", in: "", want: 0},
		{name: "exact multiple", in: "abcd", want: 1},
		{name: "rounds up", in: "abcde", want: 2},
		{name: "eight chars", in: "abcdefgh", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.in); got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestChunkText_Empty(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\n\t"} {
		chunks := ChunkText(in, "note-1", DefaultOptions())
		if len(chunks) != 0 {
			t.Errorf("ChunkText(%q) = %d chunks, want 0", in, len(chunks))
		}
	}
}

func TestChunkText_HeadingAssociation(t *testing.T) {
	text := "# Alpha\n" +
		"This section talks about apples and orchards in detail.\n" +
		"# Beta\n" +
		"This section talks about bread and baking in detail.\n"

	chunks := ChunkText(text, "note-1", DefaultOptions())
	if len(chunks) != 2 {
		t.Fatalf("ChunkText() = %d chunks, want 2", len(chunks))
	}

	if chunks[0].Heading != "Alpha" {
		t.Errorf("chunk[0].Heading = %q, want Alpha", chunks[0].Heading)
	}
	if chunks[1].Heading != "Beta" {
		t.Errorf("chunk[1].Heading = %q, want Beta", chunks[1].Heading)
	}
	if !strings.Contains(chunks[0].Content, "apples") || strings.Contains(chunks[0].Content, "bread") {
		t.Errorf("chunk[0].Content = %q, want apples section only", chunks[0].Content)
	}
	if !strings.Contains(chunks[1].Content, "bread") {
		t.Errorf("chunk[1].Content = %q, want bread section", chunks[1].Content)
	}
}

func TestChunkText_IDFormat(t *testing.T) {
	text := "# Notes\nA section body that is comfortably long enough to keep.\n"

	chunks := ChunkText(text, "abc123", DefaultOptions())
	if len(chunks) != 1 {
		t.Fatalf("ChunkText() = %d chunks, want 1", len(chunks))
	}
	if chunks[0].ID != "abc123_chunk_0" {
		t.Errorf("chunk ID = %q, want abc123_chunk_0", chunks[0].ID)
	}
	if chunks[0].NoteID != "abc123" || chunks[0].Index != 0 {
		t.Errorf("chunk = %+v, want NoteID=abc123 Index=0", chunks[0])
	}
}

func TestChunkText_SplitsWithOverlap(t *testing.T) {
	opts := Options{MaxTokens: 10, OverlapWords: 3}
	text := "One two three four five. Six seven eight nine ten. Eleven twelve thirteen fourteen."

	chunks := ChunkText(text, "note-1", opts)
	if len(chunks) != 2 {
		t.Fatalf("ChunkText() = %d chunks, want 2", len(chunks))
	}

	if chunks[0].Content != "One two three four five." {
		t.Errorf("chunk[0].Content = %q, want first sentence", chunks[0].Content)
	}
	// The last three words of the first chunk lead the second.
	if !strings.HasPrefix(chunks[1].Content, "three four five.") {
		t.Errorf("chunk[1].Content = %q, want overlap prefix %q", chunks[1].Content, "three four five.")
	}
	if !strings.Contains(chunks[1].Content, "Eleven twelve thirteen fourteen.") {
		t.Errorf("chunk[1].Content = %q, missing tail sentence", chunks[1].Content)
	}
}

func TestChunkText_ForceFlushWithoutSentenceBoundary(t *testing.T) {
	opts := Options{MaxTokens: 10, OverlapWords: 3}
	// A run-on block with no sentence terminator cannot be split at a midpoint.
	text := strings.Repeat("word ", 20)

	chunks := ChunkText(text, "note-1", opts)
	if len(chunks) != 1 {
		t.Fatalf("ChunkText() = %d chunks, want 1 force-flushed chunk", len(chunks))
	}
	if got := strings.TrimSpace(text); chunks[0].Content != got {
		t.Errorf("chunk[0].Content = %q, want whole block", chunks[0].Content)
	}
}

func TestChunkText_DropsTinyFragments(t *testing.T) {
	chunks := ChunkText("# A\nfoo bar", "note-1", DefaultOptions())
	if len(chunks) != 0 {
		t.Errorf("ChunkText() = %d chunks, want tiny fragment dropped", len(chunks))
	}
}

func TestChunkText_KeepsIndicesAcrossDroppedFragments(t *testing.T) {
	text := "# First\n" +
		"This first section body is comfortably long enough.\n" +
		"# B\n" +
		"tiny\n" +
		"# Third\n" +
		"This third section body is comfortably long enough.\n"

	chunks := ChunkText(text, "note-9", DefaultOptions())
	if len(chunks) != 2 {
		t.Fatalf("ChunkText() = %d chunks, want 2 survivors", len(chunks))
	}
	if chunks[0].Index != 0 || chunks[0].ID != "note-9_chunk_0" {
		t.Errorf("chunk[0] = %+v, want index 0", chunks[0])
	}
	// The dropped middle fragment leaves a gap, ids stay stable.
	if chunks[1].Index != 2 || chunks[1].ID != "note-9_chunk_2" {
		t.Errorf("chunk[1] = %+v, want index 2", chunks[1])
	}
}

func TestChunkText_Deterministic(t *testing.T) {
	text := "# Plans\n" +
		"First sentence about planning the week ahead. Second sentence about groceries and errands. " +
		"Third sentence about finishing the report. Fourth sentence about calling the dentist.\n" +
		"# Ideas\n" +
		"A longer idea about building a small garden shed next spring.\n"
	opts := Options{MaxTokens: 30, OverlapWords: 5}

	first := ChunkText(text, "note-1", opts)
	second := ChunkText(text, "note-1", opts)

	if len(first) == 0 {
		t.Fatal("ChunkText() produced no chunks")
	}
	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk[%d] differs between runs:\n%+v\n%+v", i, first[i], second[i])
		}
	}
}

func TestChunkText_LargeNoteRespectsBudget(t *testing.T) {
	var b strings.Builder
	b.WriteString("# Journal\n")
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&b, "Entry number %d covers the usual daily routine in some detail. ", i)
	}

	opts := Options{MaxTokens: 100, OverlapWords: 10}
	chunks := ChunkText(b.String(), "note-1", opts)
	if len(chunks) < 2 {
		t.Fatalf("ChunkText() = %d chunks, want several for a large note", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.Heading != "Journal" {
			t.Errorf("chunk[%d].Heading = %q, want Journal", i, chunk.Heading)
		}
		if chunk.Index != i {
			t.Errorf("chunk[%d].Index = %d, want contiguous indices", i, chunk.Index)
		}
	}
}
