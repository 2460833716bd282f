// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/northwind-labs/website/internal/search"
)

type Config struct {
	Port      string
	Host      string
	LogLevel  string
	StaticDir string

	CatalogPath string
	BaseURL     string

	MinQueryLength int
	Weights        search.Weights
	Locale         language.Tag

	DatabaseURL string
	RedisURL    string
	HistorySize int

	TurnstileSecret    string
	TurnstileVerifyURL string

	MailAPIURL   string
	MailAPIKey   string
	MailFrom     string
	ContactInbox string

	CRMBaseURL string
	CRMAPIKey  string

	RateLimitPerMinute int
	RobotsDisallow     []string
}

// LoadEnvFile loads path (or .env when empty) into the environment. A
// missing file is not an error.
func LoadEnvFile(path string) error {
	var err error
	if path == "" {
		err = godotenv.Load()
	} else {
		err = godotenv.Load(path)
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:      envOrDefault("PORT", "8990"),
		Host:      envOrDefault("HOST", ""),
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		StaticDir: envOrDefault("STATIC_DIR", "static"),

		CatalogPath: os.Getenv("CATALOG_PATH"),
		BaseURL:     strings.TrimRight(envOrDefault("SITE_BASE_URL", "http://localhost:8990"), "/"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		TurnstileSecret:    os.Getenv("TURNSTILE_SECRET"),
		TurnstileVerifyURL: os.Getenv("TURNSTILE_VERIFY_URL"),

		MailAPIURL:   os.Getenv("MAIL_API_URL"),
		MailAPIKey:   os.Getenv("MAIL_API_KEY"),
		MailFrom:     envOrDefault("MAIL_FROM", "Northwind Labs <website@northwind.dev>"),
		ContactInbox: envOrDefault("CONTACT_INBOX", "hello@northwind.dev"),

		CRMBaseURL: os.Getenv("CRM_BASE_URL"),
		CRMAPIKey:  os.Getenv("CRM_API_KEY"),

		RobotsDisallow: splitList(os.Getenv("ROBOTS_DISALLOW")),
	}

	var err error
	if cfg.MinQueryLength, err = envInt("SEARCH_MIN_QUERY_LENGTH", search.DefaultMinQueryLength); err != nil {
		return nil, err
	}
	if cfg.HistorySize, err = envInt("HISTORY_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = envInt("RATE_LIMIT_PER_MINUTE", 5); err != nil {
		return nil, err
	}

	w := search.DefaultWeights()
	floats := []struct {
		key string
		dst *float64
	}{
		{"SEARCH_WEIGHT_EXACT_TITLE", &w.ExactTitle},
		{"SEARCH_WEIGHT_TITLE", &w.Title},
		{"SEARCH_WEIGHT_DESCRIPTION", &w.Description},
		{"SEARCH_WEIGHT_TAG", &w.Tag},
		{"SEARCH_WEIGHT_TYPE", &w.Type},
		{"SEARCH_MIN_SCORE", &w.MinScore},
	}
	for _, f := range floats {
		if *f.dst, err = envFloat(f.key, *f.dst); err != nil {
			return nil, err
		}
	}
	if w.MaxTagMatches, err = envInt("SEARCH_MAX_TAG_MATCHES", 0); err != nil {
		return nil, err
	}
	cfg.Weights = w

	locale := envOrDefault("SEARCH_LOCALE", "en")
	if cfg.Locale, err = language.Parse(locale); err != nil {
		return nil, fmt.Errorf("invalid SEARCH_LOCALE %q: %w", locale, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port: %s", c.Port)
	}
	if c.MinQueryLength < 1 {
		return fmt.Errorf("SEARCH_MIN_QUERY_LENGTH must be at least 1, got %d", c.MinQueryLength)
	}
	if c.HistorySize < 1 {
		return fmt.Errorf("HISTORY_SIZE must be at least 1, got %d", c.HistorySize)
	}
	if c.RateLimitPerMinute < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be at least 1, got %d", c.RateLimitPerMinute)
	}
	if c.Weights.MaxTagMatches < 0 {
		return fmt.Errorf("SEARCH_MAX_TAG_MATCHES must not be negative, got %d", c.Weights.MaxTagMatches)
	}
	for name, v := range map[string]float64{
		"exact title": c.Weights.ExactTitle,
		"title":       c.Weights.Title,
		"description": c.Weights.Description,
		"tag":         c.Weights.Tag,
		"type":        c.Weights.Type,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s weight must be a finite non-negative number", name)
		}
	}
	if math.IsNaN(c.Weights.MinScore) || math.IsInf(c.Weights.MinScore, 0) {
		return errors.New("SEARCH_MIN_SCORE must be a finite number")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("SITE_BASE_URL must be an absolute http(s) URL: %q", c.BaseURL)
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
