// Package sitemap generates robots.txt and sitemap.xml from the catalog.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/temoto/robotstxt"

	"github.com/northwind-labs/website/internal/index"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Robots renders robots.txt for baseURL. /api/ is always disallowed.
func Robots(baseURL string, disallow []string) string {
	base := strings.TrimRight(baseURL, "/")

	paths := []string{"/api/"}
	for _, p := range disallow {
		p = strings.TrimSpace(p)
		if p != "" && p != "/api/" {
			paths = append(paths, p)
		}
	}

	var b strings.Builder
	b.WriteString("User-agent: *\n")
	for _, p := range paths {
		fmt.Fprintf(&b, "Disallow: %s\n", p)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Sitemap: %s/sitemap.xml\n", base)
	return b.String()
}

type urlset struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc string `xml:"loc"`
}

// Paths returns the distinct page paths of the catalog, plus the home page,
// that robots allows. Fragments are dropped so FAQ anchors collapse into
// their page.
func Paths(entries []index.Entry, robots string) ([]string, error) {
	policy, err := robotstxt.FromString(robots)
	if err != nil {
		return nil, fmt.Errorf("parse robots policy: %w", err)
	}
	group := policy.FindGroup("*")

	seen := make(map[string]bool, len(entries)+1)
	paths := make([]string, 0, len(entries)+1)
	add := func(raw string) {
		u, err := url.Parse(raw)
		if err != nil {
			return
		}
		p := u.Path
		if p == "" || seen[p] || !group.Test(p) {
			return
		}
		seen[p] = true
		paths = append(paths, p)
	}

	add("/")
	for _, e := range entries {
		add(e.URL)
	}
	return paths, nil
}

// Build renders sitemap.xml for the catalog, honouring the robots policy.
func Build(baseURL string, entries []index.Entry, robots string) ([]byte, error) {
	paths, err := Paths(entries, robots)
	if err != nil {
		return nil, err
	}

	base := strings.TrimRight(baseURL, "/")
	set := urlset{Xmlns: xmlns, URLs: make([]urlEntry, 0, len(paths))}
	for _, p := range paths {
		set.URLs = append(set.URLs, urlEntry{Loc: base + p})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
