package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/northwind-labs/website/internal/content"
	"github.com/northwind-labs/website/internal/index"
)

func (rt *state) catalogBuild(c *cli.Context) error {
	store, err := content.BuildStore(c.String("content"), rt.log)
	if err != nil {
		return err
	}
	out := c.String("out")
	if err := store.SaveFile(out); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote %d entries to %s\n", store.Count(), out)
	return nil
}

func (rt *state) catalogCheck(c *cli.Context) error {
	store, source, err := rt.loadCatalog(c.String("catalog"))
	if err != nil {
		return fmt.Errorf("catalog %s: %w", source, err)
	}

	counts := make(map[index.EntryType]int, len(index.Types))
	store.Each(func(_ int, e index.Entry) {
		counts[e.Type]++
	})

	fmt.Fprintf(c.App.Writer, "catalog %s: %d entries\n", source, store.Count())
	for _, t := range index.Types {
		fmt.Fprintf(c.App.Writer, "  %-8s %d\n", t, counts[t])
	}
	return nil
}
