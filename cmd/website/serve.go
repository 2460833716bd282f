package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/northwind-labs/website/internal/botcheck"
	"github.com/northwind-labs/website/internal/crm"
	"github.com/northwind-labs/website/internal/history"
	"github.com/northwind-labs/website/internal/leads"
	"github.com/northwind-labs/website/internal/mail"
	"github.com/northwind-labs/website/internal/search"
	"github.com/northwind-labs/website/internal/server"
	"github.com/northwind-labs/website/internal/subscribers"
)

const shutdownTimeout = 10 * time.Second

func (rt *state) serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log := rt.cfg, rt.log

	store, source, err := rt.loadCatalog("")
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	log.Info("catalog loaded", "source", source, "entries", store.Count())

	hist, closeHistory, err := rt.openHistory(ctx)
	if err != nil {
		return err
	}
	defer closeHistory()

	var subs leads.SubscriberStore
	if cfg.DatabaseURL != "" {
		pool, err := subscribers.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		s := subscribers.NewStore(pool, log)
		if err := s.EnsureSchema(ctx); err != nil {
			return err
		}
		subs = s
	} else {
		log.Warn("newsletter disabled: DATABASE_URL not set")
	}

	var crmClient leads.CRM
	if cfg.CRMBaseURL != "" {
		crmClient = crm.NewClient(cfg.CRMBaseURL, cfg.CRMAPIKey)
	}
	if cfg.MailAPIKey == "" {
		log.Warn("MAIL_API_KEY not set: enquiries cannot be delivered")
	}

	svc := leads.NewService(
		leads.Config{Inbox: cfg.ContactInbox, From: cfg.MailFrom},
		botcheck.NewClient(cfg.TurnstileSecret, cfg.TurnstileVerifyURL, log),
		mail.NewClient(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom),
		crmClient,
		subs,
		log,
	)

	searcher := search.NewSearcher(store,
		search.WithWeights(cfg.Weights),
		search.WithMinQueryLength(cfg.MinQueryLength))

	e, err := server.New(server.Deps{
		Store:              store,
		Searcher:           searcher,
		History:            hist,
		Leads:              svc,
		Logger:             log,
		Locale:             cfg.Locale,
		BaseURL:            cfg.BaseURL,
		RobotsDisallow:     cfg.RobotsDisallow,
		StaticDir:          cfg.StaticDir,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr(), "base_url", cfg.BaseURL)
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("goodbye")
	return nil
}

// openHistory returns the Redis store when REDIS_URL is set and the
// in-process store otherwise.
func (rt *state) openHistory(ctx context.Context) (history.Store, func(), error) {
	if rt.cfg.RedisURL == "" {
		m, err := history.NewMemoryStore(history.DefaultMaxVisitors, rt.cfg.HistorySize)
		if err != nil {
			return nil, nil, err
		}
		return m, func() {}, nil
	}

	r, err := history.NewRedisStore(ctx, rt.cfg.RedisURL, rt.cfg.HistorySize)
	if err != nil {
		return nil, nil, err
	}
	return r, func() {
		if err := r.Close(); err != nil {
			rt.log.Warn("close redis", "err", err)
		}
	}, nil
}
