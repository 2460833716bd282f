// Package history keeps each visitor's recent search queries.
//
// It replaces ambient UI state with an explicit store that the HTTP layer
// receives at construction time.
package history

import (
	"context"
	"errors"
	"strings"
)

// DefaultSize is the number of queries kept per visitor.
const DefaultSize = 10

// ErrEmptyVisitor is returned when no visitor ID is supplied.
var ErrEmptyVisitor = errors.New("empty visitor id")

// Store records and lists recent queries, most recent first. Recording a
// query that is already present moves it to the front.
type Store interface {
	Record(ctx context.Context, visitor, query string) error
	Recent(ctx context.Context, visitor string, n int) ([]string, error)
	Name() string
}

// cleanQuery lowercases q and collapses its whitespace, matching how the
// search engine normalises queries.
func cleanQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// prepend returns list with q at the front, without duplicates, capped at size.
func prepend(list []string, q string, size int) []string {
	out := make([]string, 0, min(len(list)+1, size))
	out = append(out, q)
	for _, existing := range list {
		if len(out) >= size {
			break
		}
		if existing != q {
			out = append(out, existing)
		}
	}
	return out
}
