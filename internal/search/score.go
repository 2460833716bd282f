package search

import (
	"strings"
	"unicode/utf8"

	"github.com/northwind-labs/website/internal/index"
)

// DefaultMinQueryLength is the shortest normalised query, in runes, that is
// scored at all.
const DefaultMinQueryLength = 2

// Weights are the per-field contributions to an entry's score.
type Weights struct {
	ExactTitle  float64
	Title       float64
	Description float64
	Tag         float64
	Type        float64
	// MaxTagMatches caps how many matching tags are counted. Zero means no cap.
	MaxTagMatches int
	// MinScore is the score an entry must exceed to be returned.
	MinScore float64
}

// DefaultWeights returns the weights used when none are configured.
func DefaultWeights() Weights {
	return Weights{
		ExactTitle:  100,
		Title:       50,
		Description: 20,
		Tag:         10,
		Type:        5,
	}
}

// NormalizeQuery trims and lowercases raw. It reports false when the result
// is shorter than minLength runes, in which case the query must not be scored.
func NormalizeQuery(raw string, minLength int) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(raw))
	if q == "" || utf8.RuneCountInString(q) < minLength {
		return "", false
	}
	return q, true
}

// Normalize is NormalizeQuery with DefaultMinQueryLength.
func Normalize(raw string) (string, bool) {
	return NormalizeQuery(raw, DefaultMinQueryLength)
}

// Score computes the relevance of e for an already normalised query.
// A zero score means no field matched.
func Score(query string, e index.Entry, w Weights) float64 {
	if query == "" {
		return 0
	}

	var score float64
	score += titleScore(query, e.Title, w)

	if e.Description != "" && strings.Contains(strings.ToLower(e.Description), query) {
		score += w.Description
	}

	tagHits := 0
	for _, tag := range e.Tags {
		if w.MaxTagMatches > 0 && tagHits >= w.MaxTagMatches {
			break
		}
		if strings.Contains(strings.ToLower(tag), query) {
			tagHits++
		}
	}
	score += float64(tagHits) * w.Tag

	if strings.Contains(string(e.Type), query) {
		score += w.Type
	}

	return score
}

// titleScore rewards an exact title above everything else; otherwise a
// substring hit is scaled by how early it occurs and how much of the title
// the query covers.
func titleScore(query, title string, w Weights) float64 {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return 0
	}
	if t == query {
		return w.ExactTitle
	}

	at := strings.Index(t, query)
	if at < 0 {
		return 0
	}

	titleLen := float64(utf8.RuneCountInString(t))
	position := 1 - float64(utf8.RuneCountInString(t[:at]))/titleLen
	ratio := float64(utf8.RuneCountInString(query)) / titleLen
	if ratio > 1 {
		ratio = 1
	}

	return w.Title * (0.5 + 0.25*position + 0.25*ratio)
}
