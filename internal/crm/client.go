package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/northwind-labs/website/internal/metrics"
)

// ErrNotFound is returned when no contact matches a lookup.
var ErrNotFound = errors.New("contact not found")

// StatusError reports an unexpected HTTP status from the CRM.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("crm %s: status %d", e.Op, e.Code)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FindContactByEmail returns the first contact with the given email.
func (c *Client) FindContactByEmail(ctx context.Context, email string) (*Contact, error) {
	q := url.Values{"email": {strings.ToLower(strings.TrimSpace(email))}}

	var resp listResponse
	if err := c.do(ctx, "find contact", http.MethodGet, "/contacts?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, ErrNotFound
	}
	return &resp.Data[0], nil
}

// CreateContact creates a new contact.
func (c *Client) CreateContact(ctx context.Context, in ContactInput) (*Contact, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	var resp itemResponse
	if err := c.do(ctx, "create contact", http.MethodPost, "/contacts", in, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// AddNote attaches a free-text note to a contact.
func (c *Client) AddNote(ctx context.Context, contactID, body string) error {
	path := "/contacts/" + url.PathEscape(contactID) + "/notes"
	return c.do(ctx, "add note", http.MethodPost, path, noteRequest{Body: body}, nil)
}

// UpsertContact looks a contact up by email and creates it when missing.
// The boolean reports whether a new contact was created.
func (c *Client) UpsertContact(ctx context.Context, in ContactInput) (*Contact, bool, error) {
	existing, err := c.FindContactByEmail(ctx, in.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	created, err := c.CreateContact(ctx, in)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveExternal("crm", start, err) }()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("crm %s: marshal: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("crm %s: build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("crm %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && method == http.MethodGet {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Op: op, Code: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("crm %s: decode: %w", op, err)
	}
	return nil
}
