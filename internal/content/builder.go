// Package content assembles the search catalog from the site's content
// files: HTML pages, markdown posts with YAML front matter and FAQ files.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"

	"github.com/northwind-labs/website/internal/index"
)

const maxDerivedDescription = 160

// ErrNoFrontMatter is returned for a markdown file without a YAML header.
var ErrNoFrontMatter = errors.New("missing front matter")

// Build walks dir in lexical order and returns one entry per indexable
// content item. Pages marked noindex and draft posts are skipped.
func Build(dir string, logger *slog.Logger) ([]index.Entry, error) {
	return BuildFS(os.DirFS(dir), logger)
}

// BuildFS is Build over an fs.FS rooted at the content directory.
func BuildFS(fsys fs.FS, logger *slog.Logger) ([]index.Entry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var entries []index.Entry

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		var parsed []index.Entry
		switch {
		case strings.HasSuffix(p, ".faq.yaml"), strings.HasSuffix(p, ".faq.yml"):
			parsed, err = parseFAQ(fsys, p)
		case strings.HasSuffix(p, ".html"):
			parsed, err = parseHTML(fsys, p)
		case strings.HasSuffix(p, ".md"):
			parsed, err = parseMarkdown(fsys, p)
		default:
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}

		logger.Debug("content parsed", "path", p, "entries", len(parsed))
		entries = append(entries, parsed...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk content: %w", err)
	}

	return entries, nil
}

// BuildStore builds and validates a catalog from dir.
func BuildStore(dir string, logger *slog.Logger) (*index.Store, error) {
	entries, err := Build(dir, logger)
	if err != nil {
		return nil, err
	}
	return index.NewStore(entries)
}

func parseHTML(fsys fs.FS, p string) ([]index.Entry, error) {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	meta := func(attr, name string) string {
		v, _ := doc.Find(fmt.Sprintf("meta[%s=%q]", attr, name)).First().Attr("content")
		return strings.TrimSpace(v)
	}

	if strings.Contains(strings.ToLower(meta("name", "robots")), "noindex") {
		return nil, nil
	}

	title := meta("property", "og:title")
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	typ := index.TypePage
	if v := meta("name", "search-type"); v != "" {
		t, err := index.ParseType(v)
		if err != nil {
			return nil, err
		}
		typ = t
	}

	url := pageURL(p)
	id := meta("name", "search-id")
	if id == "" {
		id = idFromURL(url)
	}

	return []index.Entry{{
		ID:          id,
		Title:       title,
		Description: meta("name", "description"),
		URL:         url,
		Type:        typ,
		Tags:        splitTags(meta("name", "keywords")),
	}}, nil
}

func parseMarkdown(fsys fs.FS, p string) ([]index.Entry, error) {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, err
	}

	header, body, ok := splitFrontMatter(data)
	if !ok {
		return nil, ErrNoFrontMatter
	}

	var fm frontMatter
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return nil, fmt.Errorf("decode front matter: %w", err)
	}
	if fm.Draft {
		return nil, nil
	}

	base := strings.TrimSuffix(path.Base(p), ".md")
	slug := fm.Slug
	if slug == "" {
		slug = base
	}

	typ := index.TypeBlog
	if fm.Type != "" {
		t, err := index.ParseType(fm.Type)
		if err != nil {
			return nil, err
		}
		typ = t
	}

	url := fm.URL
	if url == "" {
		url = "/blog/" + slug
	}
	id := fm.ID
	if id == "" {
		id = "blog-" + slug
	}
	desc := fm.Description
	if desc == "" {
		desc = firstParagraph(body)
	}

	return []index.Entry{{
		ID:          id,
		Title:       strings.TrimSpace(fm.Title),
		Description: desc,
		URL:         url,
		Type:        typ,
		Tags:        fm.Tags,
	}}, nil
}

func parseFAQ(fsys fs.FS, p string) ([]index.Entry, error) {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, err
	}

	var f faqFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode faq: %w", err)
	}
	page := f.Page
	if page == "" {
		page = "/faq"
	}

	entries := make([]index.Entry, 0, len(f.Items))
	for _, item := range f.Items {
		entries = append(entries, index.Entry{
			ID:          "faq-" + item.ID,
			Title:       strings.TrimSpace(item.Question),
			Description: strings.TrimSpace(item.Answer),
			URL:         page + "#" + item.ID,
			Type:        index.TypeFAQ,
			Tags:        item.Tags,
		})
	}
	return entries, nil
}

// splitFrontMatter separates a leading "---" delimited YAML block from the
// rest of a markdown file.
func splitFrontMatter(data []byte) (header, body []byte, ok bool) {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte("---\n")) {
		return nil, nil, false
	}
	rest := data[len("---\n"):]

	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, nil, false
	}
	header = rest[:end+1]
	body = rest[end+len("\n---"):]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}
	return header, body, true
}

func firstParagraph(body []byte) string {
	for _, para := range strings.Split(string(body), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" || strings.HasPrefix(para, "#") {
			continue
		}
		para = strings.Join(strings.Fields(para), " ")
		if r := []rune(para); len(r) > maxDerivedDescription {
			para = string(r[:maxDerivedDescription]) + "..."
		}
		return para
	}
	return ""
}

// pageURL maps a content path to its site URL.
func pageURL(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimSuffix(p, ".html")
	if p == "index" {
		return "/"
	}
	p = strings.TrimSuffix(p, "/index")
	return "/" + p
}

func idFromURL(url string) string {
	if url == "/" {
		return "home"
	}
	return strings.ReplaceAll(strings.Trim(url, "/"), "/", "-")
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
