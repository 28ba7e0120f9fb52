package rag

import (
	"strings"
	"unicode"

	"notemind-ai/internal/storage"
)

// Keyword scoring weights. The normalized similarity is min(score/10, 1), so a
// full-phrase content match alone saturates the scale.
const (
	fullQueryContentScore = 10
	fullQueryTitleScore   = 8
	keywordContentScore   = 2
	keywordTitleScore     = 3
	shortContentBonus     = 1

	// shortContentThreshold favors concise chunks over long dumps.
	shortContentThreshold = 500

	// noiseFloor: results scoring at or below this similarity are dropped.
	noiseFloor = 0.1

	// minKeywordLength filters short words; a length cutoff, not a stopword list.
	minKeywordLength = 2
)

// tokenizeQuery lowercases the query and returns its words longer than two
// characters. Non-alphanumeric runes act as separators.
func tokenizeQuery(query string) []string {
	var builder strings.Builder
	builder.Grow(len(query))
	for _, r := range strings.ToLower(query) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}

	var keywords []string
	for _, word := range strings.Fields(builder.String()) {
		if len(word) > minKeywordLength {
			keywords = append(keywords, word)
		}
	}
	return keywords
}

// scoreCandidate computes the normalized [0, 1] relevance of a candidate chunk.
// A query whose every word is short still scores through the full-phrase checks.
func scoreCandidate(query string, keywords []string, candidate storage.Candidate) float64 {
	content := strings.ToLower(candidate.Chunk.Content)
	title := strings.ToLower(candidate.NoteTitle)
	phrase := strings.ToLower(strings.TrimSpace(query))

	score := 0
	if phrase != "" && strings.Contains(content, phrase) {
		score += fullQueryContentScore
	}
	if phrase != "" && strings.Contains(title, phrase) {
		score += fullQueryTitleScore
	}
	for _, keyword := range keywords {
		if strings.Contains(content, keyword) {
			score += keywordContentScore
		}
		if strings.Contains(title, keyword) {
			score += keywordTitleScore
		}
	}
	if len(candidate.Chunk.Content) < shortContentThreshold {
		score += shortContentBonus
	}

	similarity := float64(score) / 10
	if similarity > 1 {
		similarity = 1
	}
	return similarity
}
