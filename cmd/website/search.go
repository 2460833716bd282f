package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/northwind-labs/website/internal/search"
)

func (rt *state) search(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return errors.New("usage: website search QUERY")
	}
	typ, err := search.ParseTypeFilter(c.String("type"))
	if err != nil {
		return err
	}
	mode, err := search.ParseSortMode(c.String("sort"))
	if err != nil {
		return err
	}

	store, _, err := rt.loadCatalog("")
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	s := search.NewSearcher(store,
		search.WithWeights(rt.cfg.Weights),
		search.WithMinQueryLength(rt.cfg.MinQueryLength))

	results := s.Search(query, search.FullLimit)
	results = search.FilterByType(results, typ)
	results = search.SortResults(results, mode, rt.cfg.Locale)
	if limit := c.Int("limit"); limit >= 0 && len(results) > limit {
		results = results[:limit]
	}

	out := c.App.Writer
	if len(results) == 0 {
		fmt.Fprintf(out, "no results for %q\n", query)
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tTYPE\tTITLE\tURL")
	for _, r := range results {
		fmt.Fprintf(w, "%.2f\t%s\t%s\t%s\n", r.Score, r.Type, r.Title, r.URL)
	}
	return w.Flush()
}
