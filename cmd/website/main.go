package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/northwind-labs/website/internal/config"
	"github.com/northwind-labs/website/internal/index"
	"github.com/northwind-labs/website/internal/logger"
)

// state is filled in by the Before hook and shared by every command.
type state struct {
	cfg *config.Config
	log *slog.Logger
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	rt := &state{}
	return &cli.App{
		Name:  "website",
		Usage: "Northwind Labs website: site search, lead forms and crawler endpoints",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error); overrides LOG_LEVEL",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load environment variables from `FILE` (default .env)",
			},
		},
		Before: func(c *cli.Context) error {
			return rt.setup(c)
		},
		Action: func(c *cli.Context) error {
			return rt.serve(c)
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server",
				Action: rt.serve,
			},
			{
				Name:      "search",
				Usage:     "Search the catalog and print ranked results",
				ArgsUsage: "QUERY",
				Action:    rt.search,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Only show entries of this type (page, service, blog, faq, about, all)",
						Value: "all",
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Order results by relevance, title-asc or title-desc",
						Value: "relevance",
					},
				},
			},
			{
				Name:  "catalog",
				Usage: "Build and validate the search catalog",
				Subcommands: []*cli.Command{
					{
						Name:   "build",
						Usage:  "Assemble a catalog from a content directory",
						Action: rt.catalogBuild,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "content",
								Usage:    "Content directory to scan",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "out",
								Aliases:  []string{"o"},
								Usage:    "Catalog YAML file to write",
								Required: true,
							},
						},
					},
					{
						Name:   "check",
						Usage:  "Load and validate a catalog",
						Action: rt.catalogCheck,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "catalog",
								Usage: "Catalog YAML file (default CATALOG_PATH or the embedded catalog)",
							},
						},
					},
				},
			},
		},
	}
}

func (rt *state) setup(c *cli.Context) error {
	if err := config.LoadEnvFile(c.String("env-file")); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}

	rt.cfg = cfg
	rt.log = logger.New(c.App.ErrWriter, cfg.LogLevel)
	slog.SetDefault(rt.log)
	return nil
}

// loadCatalog reads path, falling back to CATALOG_PATH and then the
// embedded catalog.
func (rt *state) loadCatalog(path string) (*index.Store, string, error) {
	if path == "" {
		path = rt.cfg.CatalogPath
	}
	if path == "" {
		store, err := index.Default()
		return store, "embedded", err
	}
	store, err := index.LoadFile(path)
	return store, path, err
}
