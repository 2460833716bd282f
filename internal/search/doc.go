// Package search ranks catalog entries against a free-text query.
//
// A query is normalised, every catalog entry is scored with a field-weighted
// substring matcher, and the matches are stably sorted by score and
// truncated. The overlay functions (FilterByType, SortResults, Paginate)
// operate on an already ranked list and never re-score.
//
// Everything here is pure computation over an immutable index.Store, so a
// Searcher may be shared by any number of goroutines.
package search
