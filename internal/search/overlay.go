package search

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/northwind-labs/website/internal/index"
)

// SortMode selects how a ranked list is reordered.
type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortTitleAsc  SortMode = "title-asc"
	SortTitleDesc SortMode = "title-desc"
)

// TypeAll is the filter value that keeps every entry type.
const TypeAll = "all"

var (
	// ErrInvalidSortMode is returned for an unknown sort mode.
	ErrInvalidSortMode = errors.New("invalid sort mode")

	// ErrInvalidTypeFilter is returned for an unknown type filter.
	ErrInvalidTypeFilter = errors.New("invalid type filter")
)

// ParseSortMode converts s into a SortMode. An empty string means relevance.
func ParseSortMode(s string) (SortMode, error) {
	switch m := SortMode(s); m {
	case "":
		return SortRelevance, nil
	case SortRelevance, SortTitleAsc, SortTitleDesc:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortMode, s)
}

// ParseTypeFilter converts s into a type filter. "" and "all" yield the
// empty type, which FilterByType treats as no filter.
func ParseTypeFilter(s string) (index.EntryType, error) {
	if s == "" || s == TypeAll {
		return "", nil
	}
	t, err := index.ParseType(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTypeFilter, s)
	}
	return t, nil
}

// FilterByType returns the results whose type equals t, preserving order.
// An empty t keeps every result.
func FilterByType(results []Result, t index.EntryType) []Result {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if t == "" || r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// SortResults returns a reordered copy of results. Relevance keeps the
// ranker's order; the title modes compare with the collation rules of lang.
// Equal titles keep their relative order.
func SortResults(results []Result, mode SortMode, lang language.Tag) []Result {
	out := make([]Result, len(results))
	copy(out, results)

	if mode != SortTitleAsc && mode != SortTitleDesc {
		return out
	}

	// Collators keep internal buffers and are not safe to share.
	c := collate.New(lang)
	sort.SliceStable(out, func(i, j int) bool {
		cmp := c.CompareString(out[i].Title, out[j].Title)
		if mode == SortTitleDesc {
			return cmp > 0
		}
		return cmp < 0
	})
	return out
}

// Page is one page of a result list.
type Page struct {
	Items      []Result `json:"items"`
	Page       int      `json:"page"`
	PerPage    int      `json:"perPage"`
	Total      int      `json:"total"`
	TotalPages int      `json:"totalPages"`
}

// Paginate slices results into pages of perPage items and returns the
// requested one-based page. Pages past the end have no items.
func Paginate(results []Result, page, perPage int) Page {
	if perPage <= 0 {
		perPage = ResultsPerPage
	}
	if page < 1 {
		page = 1
	}

	p := Page{
		Items:      []Result{},
		Page:       page,
		PerPage:    perPage,
		Total:      len(results),
		TotalPages: (len(results) + perPage - 1) / perPage,
	}

	if page > p.TotalPages {
		return p
	}
	start := (page - 1) * perPage
	end := min(start+perPage, len(results))
	p.Items = results[start:end]
	return p
}
