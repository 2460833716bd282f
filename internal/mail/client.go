package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/northwind-labs/website/internal/metrics"
)

// DefaultBaseURL is the mail delivery API.
const DefaultBaseURL = "https://api.resend.com"

// ErrNoRecipients is returned when a message has no To address.
var ErrNoRecipients = errors.New("message has no recipients")

// Sender delivers email.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

type Client struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, from string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		from:    from,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Send delivers msg and returns the provider's message ID. An empty From
// falls back to the client's default sender.
func (c *Client) Send(ctx context.Context, msg Message) (id string, err error) {
	if len(msg.To) == 0 {
		return "", ErrNoRecipients
	}
	if msg.From == "" {
		msg.From = c.from
	}

	start := time.Now()
	defer func() { metrics.ObserveExternal("mail", start, err) }()

	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("marshal mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("mail request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Message != "" {
			return "", fmt.Errorf("mail: status %d: %s", resp.StatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("mail: status %d", resp.StatusCode)
	}

	var result sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode mail response: %w", err)
	}
	return result.ID, nil
}

var strict = bluemonday.StrictPolicy()

// PlainText strips any markup from user-supplied text so it can be placed
// in a plain-text email body.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
