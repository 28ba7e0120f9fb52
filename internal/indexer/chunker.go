package indexer

import (
	"fmt"
	"strings"
)

// minChunkLength is the noise floor: chunks whose trimmed content is this
// short or shorter are discarded after chunking.
const minChunkLength = 20

// Options controls chunk sizing.
type Options struct {
	// MaxTokens bounds the estimated token count of a chunk buffer before it is split.
	MaxTokens int
	// OverlapWords is the number of trailing words carried from a split chunk
	// into the next one, preserving context across the cut.
	OverlapWords int
}

// DefaultOptions returns the chunk sizing used by the note pipeline.
func DefaultOptions() Options {
	return Options{MaxTokens: 500, OverlapWords: 20}
}

// EstimateTokens approximates the token count of a string as ceil(len/4).
// This is a cheap proxy, not a real tokenizer; all token budgets in the
// pipeline are calibrated against it, so it must not be swapped out in isolation.
func EstimateTokens(s string) int {
	return (len(s) + 3) / 4
}

// ChunkText splits note text into overlapping, heading-aware chunks.
//
// Lines accumulate into a buffer. A markdown heading flushes the buffer
// (under the previous heading) and starts a new one seeded with the heading
// line. When the buffer's token estimate exceeds MaxTokens it is cut at its
// midpoint sentence boundary, with the last OverlapWords words of the first
// half carried into the second; a buffer with no sentence boundary is
// force-flushed whole. Chunks at or under 20 trimmed characters are dropped.
//
// Chunking is deterministic: the same text and options always produce the
// same contents, indices, and ids, which makes re-processing idempotent.
// Empty or whitespace-only input yields an empty slice, not an error.
func ChunkText(text, noteID string, opts Options) []Chunk {
	if strings.TrimSpace(text) == "" {
		return []Chunk{}
	}

	var chunks []Chunk
	index := 0
	flush := func(content, heading string) {
		chunks = append(chunks, Chunk{
			ID:      fmt.Sprintf("%s_chunk_%d", noteID, index),
			NoteID:  noteID,
			Index:   index,
			Heading: heading,
			Content: strings.TrimSpace(content),
		})
		index++
	}

	var buffer string
	var heading string

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "#") {
			if strings.TrimSpace(buffer) != "" {
				flush(buffer, heading)
			}
			heading = strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			buffer = line + "\n"
			continue
		}

		buffer += line + "\n"

		if EstimateTokens(buffer) > opts.MaxTokens {
			sentences := splitSentences(buffer)
			if len(sentences) > 1 {
				mid := len(sentences) / 2
				first := strings.Join(sentences[:mid], "")
				second := strings.Join(sentences[mid:], "")
				flush(first, heading)
				buffer = joinOverlap(lastWords(first, opts.OverlapWords), second)
			} else {
				// Single run-on block, nothing to cut at: flush it whole.
				flush(buffer, heading)
				buffer = ""
			}
		}
	}

	if strings.TrimSpace(buffer) != "" {
		flush(buffer, heading)
	}

	// Drop tiny fragments. Surviving chunks keep their original index, so ids
	// stay deterministic across re-chunking.
	kept := chunks[:0]
	for _, chunk := range chunks {
		if len(chunk.Content) > minChunkLength {
			kept = append(kept, chunk)
		}
	}
	return kept
}

// splitSentences splits text after each sentence terminator, keeping the
// terminator with its sentence. A whitespace-only remainder is not a sentence.
func splitSentences(s string) []string {
	var parts []string
	start := 0
	for i, r := range s {
		if r == '.' || r == '!' || r == '?' {
			parts = append(parts, s[start:i+1])
			start = i + 1
		}
	}
	if strings.TrimSpace(s[start:]) != "" {
		parts = append(parts, s[start:])
	}
	return parts
}

// lastWords returns the final n whitespace-separated words of s.
func lastWords(s string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(s)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[len(words)-n:], " ")
}

// joinOverlap prepends overlap text to the continuation buffer.
func joinOverlap(overlap, rest string) string {
	if overlap == "" {
		return rest
	}
	return overlap + " " + strings.TrimLeft(rest, " ")
}
