package index

import "fmt"

// EntryType classifies a catalog entry.
type EntryType string

const (
	TypePage    EntryType = "page"
	TypeService EntryType = "service"
	TypeBlog    EntryType = "blog"
	TypeFAQ     EntryType = "faq"
	TypeAbout   EntryType = "about"
)

// Types lists every valid entry type in display order.
var Types = []EntryType{TypePage, TypeService, TypeBlog, TypeFAQ, TypeAbout}

// Valid reports whether t is one of the known entry types.
func (t EntryType) Valid() bool {
	switch t {
	case TypePage, TypeService, TypeBlog, TypeFAQ, TypeAbout:
		return true
	}
	return false
}

// ParseType converts s into an EntryType.
func ParseType(s string) (EntryType, error) {
	t := EntryType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

// Entry is one searchable unit of site content.
type Entry struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description,omitempty"`
	URL         string    `json:"url" yaml:"url"`
	Type        EntryType `json:"type" yaml:"type"`
	Tags        []string  `json:"tags" yaml:"tags,omitempty"`
}

// Catalog is the top-level persisted structure.
type Catalog struct {
	Entries []Entry `yaml:"entries"`
}
