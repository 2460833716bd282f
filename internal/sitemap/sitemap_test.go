package sitemap

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northwind-labs/website/internal/index"
)

func TestRobots(t *testing.T) {
	got := Robots("https://northwind.dev/", []string{"/drafts/", " ", "/api/"})
	want := "User-agent: *\nDisallow: /api/\nDisallow: /drafts/\n\nSitemap: https://northwind.dev/sitemap.xml\n"
	assert.Equal(t, want, got)
}

func TestBuild(t *testing.T) {
	entries := []index.Entry{
		{ID: "svc", URL: "/services/web"},
		{ID: "faq", URL: "/faq"},
		{ID: "faq-1", URL: "/faq#timeline"},
		{ID: "draft", URL: "/drafts/secret"},
	}
	robots := Robots("https://northwind.dev", []string{"/drafts/"})

	paths, err := Paths(entries, robots)
	require.NoError(t, err)
	assert.Equal(t, []string{"/", "/services/web", "/faq"}, paths)

	out, err := Build("https://northwind.dev", entries, robots)
	require.NoError(t, err)

	var set urlset
	require.NoError(t, xml.Unmarshal(out, &set))
	assert.Contains(t, string(out), `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	require.Len(t, set.URLs, 3)
	assert.Equal(t, "https://northwind.dev/services/web", set.URLs[1].Loc)
}

func TestBuild_DefaultCatalog(t *testing.T) {
	store, err := index.Default()
	require.NoError(t, err)

	paths, err := Paths(store.Entries(), Robots("https://northwind.dev", nil))
	require.NoError(t, err)
	assert.Contains(t, paths, "/pricing")
	assert.NotContains(t, paths, "/faq#pricing")
}
