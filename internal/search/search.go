package search

import (
	"sort"

	"github.com/northwind-labs/website/internal/index"
)

// Result is a scored catalog entry returned to the presentation layer.
type Result struct {
	index.Entry
	Score float64 `json:"score"`
}

// Limits used by the two presentation surfaces.
const (
	QuickLimit     = 8
	FullLimit      = 100
	ResultsPerPage = 10
)

type Searcher struct {
	store     *index.Store
	weights   Weights
	minLength int
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithWeights replaces the default field weights.
func WithWeights(w Weights) Option {
	return func(s *Searcher) {
		s.weights = w
	}
}

// WithMinQueryLength sets the shortest query that is scored.
// Values below 1 are ignored.
func WithMinQueryLength(n int) Option {
	return func(s *Searcher) {
		if n >= 1 {
			s.minLength = n
		}
	}
}

func NewSearcher(store *index.Store, opts ...Option) *Searcher {
	s := &Searcher{
		store:     store,
		weights:   DefaultWeights(),
		minLength: DefaultMinQueryLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights returns the weights in effect.
func (s *Searcher) Weights() Weights {
	return s.weights
}

// Accepts reports whether query is long enough to be scored.
func (s *Searcher) Accepts(query string) bool {
	_, ok := NormalizeQuery(query, s.minLength)
	return ok
}

// Search returns up to limit catalog entries matching query, best first.
// Entries with equal scores keep their catalog order. An empty or too short
// query, or a limit below one, yields an empty list.
func (s *Searcher) Search(query string, limit int) []Result {
	q, ok := NormalizeQuery(query, s.minLength)
	if !ok || limit <= 0 || s.store == nil {
		return []Result{}
	}

	results := make([]Result, 0, 16)
	s.store.Each(func(_ int, e index.Entry) {
		score := Score(q, e, s.weights)
		if score <= 0 || score <= s.weights.MinScore {
			return
		}
		e.Tags = append([]string(nil), e.Tags...)
		results = append(results, Result{Entry: e, Score: score})
	})

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
