package botcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/northwind-labs/website/internal/metrics"
)

// DefaultVerifyURL is the Turnstile siteverify endpoint.
const DefaultVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

var (
	// ErrMissingToken is returned when the form carried no challenge token.
	ErrMissingToken = errors.New("missing challenge token")

	// ErrChallengeFailed is returned when the provider rejected the token.
	ErrChallengeFailed = errors.New("challenge failed")
)

// Verifier checks a bot-protection token.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

type Client struct {
	secret     string
	verifyURL  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient returns a siteverify client. With an empty secret every token is
// accepted, which is only meant for local development.
func NewClient(secret, verifyURL string, logger *slog.Logger) *Client {
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		secret:    secret,
		verifyURL: verifyURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.With("component", "botcheck"),
	}
	if secret == "" {
		c.logger.Warn("bot check disabled: no secret configured")
	}
	return c
}

// Enabled reports whether tokens are actually verified.
func (c *Client) Enabled() bool {
	return c.secret != ""
}

// Verify validates token with the provider.
func (c *Client) Verify(ctx context.Context, token, remoteIP string) (err error) {
	if !c.Enabled() {
		return nil
	}
	if strings.TrimSpace(token) == "" {
		return ErrMissingToken
	}

	start := time.Now()
	defer func() { metrics.ObserveExternal("botcheck", start, err) }()

	form := url.Values{
		"secret":   {c.secret},
		"response": {token},
	}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("verify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("verify: status %d", resp.StatusCode)
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode verify response: %w", err)
	}

	if !result.Success {
		c.logger.Info("challenge rejected", "codes", result.ErrorCodes)
		return fmt.Errorf("%w: %s", ErrChallengeFailed, strings.Join(result.ErrorCodes, ","))
	}
	return nil
}
