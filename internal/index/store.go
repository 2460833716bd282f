package index

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Store is the immutable in-memory catalog. It is safe for concurrent reads.
type Store struct {
	entries []Entry
	byID    map[string]int
}

// NewStore validates entries and builds a catalog from them. The slice is
// copied, so later changes by the caller are not visible to the store.
func NewStore(entries []Entry) (*Store, error) {
	s := &Store{
		entries: make([]Entry, 0, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}

	for i, e := range entries {
		if err := ValidateEntry(e); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if _, ok := s.byID[e.ID]; ok {
			return nil, fmt.Errorf("entry %d: %w: %q", i, ErrDuplicateID, e.ID)
		}
		e.Tags = append([]string(nil), e.Tags...)
		s.byID[e.ID] = len(s.entries)
		s.entries = append(s.entries, e)
	}

	return s, nil
}

// ValidateEntry checks a single entry against the catalog invariants that
// can be verified without the rest of the catalog.
func ValidateEntry(e Entry) error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: %q", ErrEmptyTitle, e.ID)
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: %q on %q", ErrInvalidType, e.Type, e.ID)
	}
	if !isSiteRelative(e.URL) {
		return fmt.Errorf("%w: %q on %q", ErrInvalidURL, e.URL, e.ID)
	}
	return nil
}

func isSiteRelative(raw string) bool {
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// Default returns the catalog compiled into the binary.
func Default() (*Store, error) {
	return LoadBytes(defaultCatalog)
}

// LoadBytes decodes a YAML catalog.
func LoadBytes(data []byte) (*Store, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return NewStore(c.Entries)
}

// LoadFile reads and decodes the YAML catalog at path.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return LoadBytes(data)
}

// SaveFile writes the catalog to path as YAML.
func (s *Store) SaveFile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create catalog dir: %w", err)
		}
	}

	data, err := yaml.Marshal(Catalog{Entries: s.entries})
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write catalog file: %w", err)
	}
	return nil
}

// Entries returns a copy of the catalog in its original order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Each calls fn for every entry in catalog order without copying the slice.
// fn must not retain or modify the entry's Tags.
func (s *Store) Each(fn func(i int, e Entry)) {
	for i, e := range s.entries {
		fn(i, e)
	}
}

// Count returns the number of catalog entries.
func (s *Store) Count() int {
	return len(s.entries)
}

// GetByID returns the entry with the given ID.
func (s *Store) GetByID(id string) (Entry, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}
