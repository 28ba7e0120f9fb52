// Package suggest derives tag suggestions from note text.
// It is a pure function over its inputs so it can be tested without a store.
package suggest

import (
	"sort"
	"strings"
	"unicode"
)

const (
	maxSuggestions   = 5
	minWordLength    = 4
	existingTagBoost = 3.0
)

var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "also": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {}, "for": {}, "from": {}, "has": {}, "have": {}, "in": {},
	"into": {}, "is": {}, "it": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {},
	"this": {}, "to": {}, "was": {}, "were": {}, "when": {}, "which": {}, "will": {}, "with": {},
}

// ScoredSuggestion is a candidate tag with its relevance score.
type ScoredSuggestion struct {
	Tag   string  `json:"tag"`
	Score float64 `json:"score"`
}

// Suggest returns up to five tag candidates for the given text, scored by
// word frequency. Words matching an existing tag score higher, so established
// vocabulary wins over one-off terms. Ties break alphabetically to keep the
// output deterministic.
func Suggest(text string, existingTags []string) []ScoredSuggestion {
	words := tokenize(text)
	if len(words) == 0 {
		return []ScoredSuggestion{}
	}

	existing := make(map[string]struct{}, len(existingTags))
	for _, tag := range existingTags {
		existing[strings.ToLower(tag)] = struct{}{}
	}

	freq := make(map[string]int)
	for _, word := range words {
		if len(word) < minWordLength {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		freq[word]++
	}

	suggestions := make([]ScoredSuggestion, 0, len(freq))
	for word, count := range freq {
		score := float64(count)
		if _, known := existing[word]; known {
			score *= existingTagBoost
		}
		suggestions = append(suggestions, ScoredSuggestion{Tag: word, Score: score})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].Tag < suggestions[j].Tag
	})

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

func tokenize(text string) []string {
	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}
	return strings.Fields(builder.String())
}
