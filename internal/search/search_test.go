package search

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northwind-labs/website/internal/index"
)

func newTestStore(t *testing.T, entries ...index.Entry) *index.Store {
	t.Helper()
	if entries == nil {
		entries = []index.Entry{
			{ID: "s1", Title: "Web & App Development", Description: "...", URL: "/services/web", Type: index.TypeService, Tags: []string{"web", "app"}},
			{ID: "b1", Title: "Our Web Design Tips", Description: "...", URL: "/blog/tips", Type: index.TypeBlog, Tags: []string{"design"}},
		}
	}
	store, err := index.NewStore(entries)
	require.NoError(t, err)
	return store
}

func ids(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"", "", false},
		{"   ", "", false},
		{"a", "", false},
		{" a ", "", false},
		{"é", "", false},
		{"Go", "go", true},
		{"  Web Design ", "web design", true},
		{"ÉCOLE", "école", true},
	}

	for _, tt := range tests {
		got, ok := Normalize(tt.in)
		assert.Equal(t, tt.wantOK, ok, "Normalize(%q)", tt.in)
		assert.Equal(t, tt.want, got, "Normalize(%q)", tt.in)
	}

	got, ok := NormalizeQuery("ab", 3)
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestScore(t *testing.T) {
	w := DefaultWeights()

	t.Run("exact title beats substring", func(t *testing.T) {
		exact := index.Entry{Title: "Pricing", Type: index.TypePage}
		partial := index.Entry{Title: "Pricing and Plans", Type: index.TypePage}
		assert.Equal(t, w.ExactTitle, Score("pricing", exact, w))
		assert.Less(t, Score("pricing", partial, w), Score("pricing", exact, w))
	})

	t.Run("earlier title match scores higher", func(t *testing.T) {
		early := index.Entry{Title: "Cloud Migration Guide", Type: index.TypeBlog}
		late := index.Entry{Title: "Guide to Cloud Migration", Type: index.TypeBlog}
		assert.Greater(t, Score("cloud", early, w), Score("cloud", late, w))
	})

	t.Run("closer length ratio scores higher", func(t *testing.T) {
		short := index.Entry{Title: "Cloud Ops", Type: index.TypeBlog}
		long := index.Entry{Title: "Cloud Operations for Regulated Industries", Type: index.TypeBlog}
		assert.Greater(t, Score("cloud", short, w), Score("cloud", long, w))
	})

	t.Run("field weights", func(t *testing.T) {
		e := index.Entry{Title: "Audit", Description: "a security review", Type: index.TypeService}
		assert.Equal(t, w.Description, Score("security", e, w))

		e = index.Entry{Title: "Audit", Type: index.TypeService, Tags: []string{"security", "secure-coding", "ops"}}
		assert.Equal(t, 2*w.Tag, Score("secur", e, w))

		e = index.Entry{Title: "Audit", Type: index.TypeService}
		assert.Equal(t, w.Type, Score("serv", e, w))
	})

	t.Run("tag cap", func(t *testing.T) {
		capped := w
		capped.MaxTagMatches = 1
		e := index.Entry{Title: "Audit", Type: index.TypeService, Tags: []string{"go", "golang", "go-kit"}}
		assert.Equal(t, 3*w.Tag, Score("go", e, w))
		assert.Equal(t, w.Tag, Score("go", e, capped))
	})

	t.Run("no match or empty fields", func(t *testing.T) {
		e := index.Entry{Title: "Audit", Type: index.TypeService}
		assert.Zero(t, Score("xyznonexistent", e, w))
		assert.Zero(t, Score("", e, w))
	})

	t.Run("deterministic", func(t *testing.T) {
		e := index.Entry{Title: "Web & App Development", Description: "web apps", Type: index.TypeService, Tags: []string{"web"}}
		first := Score("web", e, w)
		for range 10 {
			assert.Equal(t, first, Score("web", e, w))
		}
	})
}

func TestSearch_Example(t *testing.T) {
	s := NewSearcher(newTestStore(t))

	results := s.Search("web", 10)
	require.Len(t, results, 2)
	assert.Equal(t, []string{"s1", "b1"}, ids(results))
	assert.Greater(t, results[0].Score, results[1].Score)

	top := s.Search("web", 1)
	require.Len(t, top, 1)
	assert.Equal(t, "s1", top[0].ID)

	assert.Empty(t, s.Search("xyznonexistent", 10))
}

func TestSearch_EmptyQueryLaw(t *testing.T) {
	s := NewSearcher(newTestStore(t))
	for _, q := range []string{"", " ", "a", "\t\n"} {
		for _, n := range []int{0, 1, 8, 100} {
			results := s.Search(q, n)
			assert.NotNil(t, results)
			assert.Empty(t, results, "Search(%q, %d)", q, n)
		}
	}
}

func TestSearch_LimitAndOrdering(t *testing.T) {
	store, err := index.Default()
	require.NoError(t, err)
	s := NewSearcher(store)

	for _, q := range []string{"cloud", "design", "pricing", "faq", "go", "support", "web"} {
		all := s.Search(q, FullLimit)
		for _, n := range []int{0, 1, 2, 3, 8, 100} {
			got := s.Search(q, n)
			assert.LessOrEqual(t, len(got), n)
			assert.Len(t, got, min(n, len(all)))
			assert.Equal(t, all[:len(got)], got, "prefix of full result for %q", q)
		}
		for i := 1; i < len(all); i++ {
			assert.GreaterOrEqual(t, all[i-1].Score, all[i].Score, "scores not monotonic for %q", q)
		}
	}

	assert.Empty(t, s.Search("cloud", -5))
}

func TestSearch_StableTies(t *testing.T) {
	store := newTestStore(t,
		index.Entry{ID: "a", Title: "Alpha", URL: "/a", Type: index.TypeFAQ, Tags: []string{"shared"}},
		index.Entry{ID: "b", Title: "Beta", URL: "/b", Type: index.TypeFAQ, Tags: []string{"shared"}},
		index.Entry{ID: "c", Title: "Gamma", URL: "/c", Type: index.TypeFAQ, Tags: []string{"shared"}},
	)
	s := NewSearcher(store)

	for range 20 {
		assert.Equal(t, []string{"a", "b", "c"}, ids(s.Search("shared", 10)))
	}
}

func TestSearch_Options(t *testing.T) {
	store := newTestStore(t)

	s := NewSearcher(store, WithMinQueryLength(4))
	assert.False(t, s.Accepts("web"))
	assert.True(t, s.Accepts(" design "))
	assert.Empty(t, s.Search("web", 10))
	assert.NotEmpty(t, s.Search("design", 10))

	s = NewSearcher(store, WithMinQueryLength(0))
	assert.Empty(t, s.Search("w", 10), "min length below one is ignored")

	w := DefaultWeights()
	w.MinScore = 40
	s = NewSearcher(store, WithWeights(w))
	assert.Equal(t, []string{"s1"}, ids(s.Search("web", 10)))
	assert.Equal(t, w, s.Weights())
}

func TestSearch_ResultsDoNotAlias(t *testing.T) {
	s := NewSearcher(newTestStore(t))

	first := s.Search("web", 10)
	first[0].Tags[0] = "mutated"

	again := s.Search("web", 10)
	assert.Equal(t, "web", again[0].Tags[0])
}

func TestSearch_Concurrent(t *testing.T) {
	store, err := index.Default()
	require.NoError(t, err)
	s := NewSearcher(store)
	want := s.Search("cloud", FullLimit)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				assert.Equal(t, want, s.Search("cloud", FullLimit))
			}
		}()
	}
	wg.Wait()
}
