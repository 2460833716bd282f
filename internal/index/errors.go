package index

import "errors"

var (
	// ErrDuplicateID is returned when two entries share an ID.
	ErrDuplicateID = errors.New("duplicate entry id")

	// ErrInvalidType is returned for a type outside the known set.
	ErrInvalidType = errors.New("invalid entry type")

	// ErrInvalidURL is returned when an entry URL is not a site-relative path.
	ErrInvalidURL = errors.New("invalid entry url")

	// ErrEmptyID is returned when an entry has no ID.
	ErrEmptyID = errors.New("empty entry id")

	// ErrEmptyTitle is returned when an entry has no title.
	ErrEmptyTitle = errors.New("empty entry title")
)
