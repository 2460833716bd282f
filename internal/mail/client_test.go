package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_123"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "key-1", "site@example.com")
	id, err := c.Send(context.Background(), Message{
		To:      []string{"hello@example.com"},
		Subject: "New enquiry",
		Text:    "body",
		ReplyTo: "lead@example.org",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg_123", id)
	assert.Equal(t, "site@example.com", got.From)
	assert.Equal(t, []string{"hello@example.com"}, got.To)
	assert.Equal(t, "lead@example.org", got.ReplyTo)
}

func TestSend_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"name":"validation_error","message":"invalid from address"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "bad")
	_, err := c.Send(context.Background(), Message{To: []string{"a@example.com"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from address")

	_, err = c.Send(context.Background(), Message{})
	assert.ErrorIs(t, err, ErrNoRecipients)
}

func TestPlainText(t *testing.T) {
	tests := map[string]string{
		"hello":                            "hello",
		"<b>bold</b> move":                 "bold move",
		"<script>alert(1)</script>Hi":      "Hi",
		"Tom & Jerry <a href='x'>link</a>": "Tom & Jerry link",
		"  budget: 10k-20k \n":             "budget: 10k-20k",
	}
	for in, want := range tests {
		assert.Equal(t, want, PlainText(in), "PlainText(%q)", in)
	}
}
