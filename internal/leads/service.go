// Package leads handles the contact and newsletter forms: validation, the
// bot check, delivery to the inbox and syncing people into the CRM.
package leads

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/northwind-labs/website/internal/botcheck"
	"github.com/northwind-labs/website/internal/crm"
	"github.com/northwind-labs/website/internal/mail"
	"github.com/northwind-labs/website/internal/metrics"
	"github.com/northwind-labs/website/internal/subscribers"
)

// CRM is the subset of the CRM client used by the funnel.
type CRM interface {
	UpsertContact(ctx context.Context, in crm.ContactInput) (*crm.Contact, bool, error)
	AddNote(ctx context.Context, contactID, body string) error
}

// SubscriberStore persists newsletter signups.
type SubscriberStore interface {
	Subscribe(ctx context.Context, sub subscribers.Subscriber) (subscribers.Subscriber, error)
}

// Config holds the addresses used for outgoing mail.
type Config struct {
	Inbox string
	From  string
}

type Service struct {
	cfg         Config
	validator   *Validator
	verifier    botcheck.Verifier
	sender      mail.Sender
	crm         CRM
	subscribers SubscriberStore
	logger      *slog.Logger
}

// NewService wires the funnel. crm and store may be nil: CRM sync is then
// skipped and newsletter signups fail with ErrNewsletterDisabled.
func NewService(cfg Config, verifier botcheck.Verifier, sender mail.Sender, crmClient CRM, store SubscriberStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:         cfg,
		validator:   NewValidator(),
		verifier:    verifier,
		sender:      sender,
		crm:         crmClient,
		subscribers: store,
		logger:      logger.With("component", "leads"),
	}
}

// NewsletterEnabled reports whether signups can be stored.
func (s *Service) NewsletterEnabled() bool {
	return s.subscribers != nil
}

// SubmitContact validates an enquiry, checks the challenge token and sends
// the enquiry to the inbox. The CRM is updated at the same time; CRM
// failures are logged and do not fail the submission.
func (s *Service) SubmitContact(ctx context.Context, form ContactForm, remoteIP string) (err error) {
	defer func() { metrics.RecordSubmission("contact", outcome(err)) }()

	form.normalize()
	if err := s.validator.Struct(form); err != nil {
		return err
	}
	if err := s.verifier.Verify(ctx, form.Token, remoteIP); err != nil {
		return fmt.Errorf("%w: %w", ErrBotCheck, err)
	}

	var g errgroup.Group
	g.Go(func() error {
		id, err := s.sender.Send(ctx, mail.Message{
			From:    s.cfg.From,
			To:      []string{s.cfg.Inbox},
			Subject: "New enquiry from " + mail.PlainText(form.Name),
			Text:    contactBody(form),
			ReplyTo: form.Email,
		})
		if err != nil {
			return err
		}
		s.logger.Info("enquiry delivered", "message_id", id)
		return nil
	})
	g.Go(func() error {
		s.syncContact(ctx, form)
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("enquiry delivery failed", "err", err)
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	return nil
}

func (s *Service) syncContact(ctx context.Context, form ContactForm) {
	if s.crm == nil {
		return
	}

	first, last := splitName(form.Name)
	contact, created, err := s.crm.UpsertContact(ctx, crm.ContactInput{
		Email:     form.Email,
		FirstName: first,
		LastName:  last,
		Company:   form.Company,
		Phone:     form.Phone,
		Source:    "contact-form",
		Tags:      []string{"lead"},
	})
	if err != nil {
		s.logger.Warn("crm upsert failed", "err", err)
		return
	}
	s.logger.Info("crm contact synced", "contact_id", contact.ID, "created", created)

	if err := s.crm.AddNote(ctx, contact.ID, contactBody(form)); err != nil {
		s.logger.Warn("crm note failed", "contact_id", contact.ID, "err", err)
	}
}

func contactBody(form ContactForm) string {
	var b strings.Builder
	line := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(mail.PlainText(value))
		b.WriteString("\n")
	}

	line("Name", form.Name)
	line("Email", form.Email)
	line("Company", form.Company)
	line("Phone", form.Phone)
	line("Service", form.Service)
	line("Budget", form.Budget)
	b.WriteString("\n")
	b.WriteString(mail.PlainText(form.Message))
	b.WriteString("\n")
	return b.String()
}

// Subscribe stores a newsletter signup and adds the person to the CRM. It
// reports whether the email was new; an existing subscription is not an
// error.
func (s *Service) Subscribe(ctx context.Context, form NewsletterForm, remoteIP string) (created bool, err error) {
	defer func() { metrics.RecordSubmission("newsletter", outcome(err)) }()

	if s.subscribers == nil {
		return false, ErrNewsletterDisabled
	}

	form.normalize()
	if err := s.validator.Struct(form); err != nil {
		return false, err
	}
	if err := s.verifier.Verify(ctx, form.Token, remoteIP); err != nil {
		return false, fmt.Errorf("%w: %w", ErrBotCheck, err)
	}

	sub, err := s.subscribers.Subscribe(ctx, subscribers.Subscriber{
		Email:     form.Email,
		FirstName: form.FirstName,
		Source:    form.Source,
	})
	if errors.Is(err, subscribers.ErrAlreadySubscribed) {
		s.logger.Info("already subscribed")
		return false, nil
	}
	if err != nil {
		s.logger.Error("subscriber store failed", "err", err)
		return false, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	if s.crm != nil {
		if _, _, err := s.crm.UpsertContact(ctx, crm.ContactInput{
			Email:     sub.Email,
			FirstName: sub.FirstName,
			Source:    "newsletter",
			Tags:      []string{"newsletter"},
		}); err != nil {
			s.logger.Warn("crm upsert failed", "err", err)
		}
	}
	return true, nil
}

func outcome(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &verr):
		return "invalid"
	case errors.Is(err, ErrBotCheck):
		return "bot"
	default:
		return "error"
	}
}
