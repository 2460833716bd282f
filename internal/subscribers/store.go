// Package subscribers persists newsletter signups in Postgres.
package subscribers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrAlreadySubscribed is returned when the email is already on the list.
var ErrAlreadySubscribed = errors.New("already subscribed")

// Connection pool configuration constants
const (
	maxConns        = int32(5)
	maxConnLifetime = time.Hour
	maxConnIdleTime = 30 * time.Minute
)

// DB is the subset of pgxpool.Pool used by Store.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Subscriber is one newsletter signup.
type Subscriber struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	Source    string
	CreatedAt time.Time
}

type Store struct {
	db     DB
	logger *slog.Logger
}

func NewStore(db DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger.With("component", "subscribers")}
}

// Connect opens a connection pool to databaseURL and verifies it.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	cfg.MaxConns = maxConns
	cfg.MaxConnLifetime = maxConnLifetime
	cfg.MaxConnIdleTime = maxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

const schemaSQL = `CREATE TABLE IF NOT EXISTS newsletter_subscribers (
	id UUID PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	first_name TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
)`

// EnsureSchema creates the subscribers table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create subscribers table: %w", err)
	}
	return nil
}

const insertSQL = `INSERT INTO newsletter_subscribers (id, email, first_name, source, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (email) DO NOTHING`

// Subscribe stores sub. The email is normalised to lower case; an ID and
// timestamp are assigned when missing. Returns ErrAlreadySubscribed when the
// email is already stored.
func (s *Store) Subscribe(ctx context.Context, sub Subscriber) (Subscriber, error) {
	sub.Email = strings.ToLower(strings.TrimSpace(sub.Email))
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}

	tag, err := s.db.Exec(ctx, insertSQL, sub.ID, sub.Email, sub.FirstName, sub.Source, sub.CreatedAt)
	if err != nil {
		return Subscriber{}, fmt.Errorf("insert subscriber: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sub, ErrAlreadySubscribed
	}

	s.logger.Info("subscriber stored", "id", sub.ID, "source", sub.Source)
	return sub, nil
}

const countSQL = `SELECT COUNT(*) FROM newsletter_subscribers`

// Count returns the number of stored subscribers.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, countSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return n, nil
}
