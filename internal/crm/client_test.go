package crm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCRM is an in-memory stand-in for the CRM REST API.
type fakeCRM struct {
	mu       sync.Mutex
	contacts []Contact
	notes    map[string][]string
	creates  int
}

func newFakeCRM(t *testing.T) (*fakeCRM, *httptest.Server) {
	t.Helper()
	f := &fakeCRM{notes: map[string][]string{}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /contacts", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		resp := listResponse{Data: []Contact{}}
		for _, c := range f.contacts {
			if c.Email == r.URL.Query().Get("email") {
				resp.Data = append(resp.Data, c)
			}
		}
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("POST /contacts", func(w http.ResponseWriter, r *http.Request) {
		var in ContactInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		f.mu.Lock()
		defer f.mu.Unlock()
		f.creates++
		c := Contact{ID: "c" + string(rune('0'+len(f.contacts))), Email: in.Email, FirstName: in.FirstName, Source: in.Source, Tags: in.Tags}
		f.contacts = append(f.contacts, c)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(itemResponse{Data: c})
	})
	mux.HandleFunc("POST /contacts/{id}/notes", func(w http.ResponseWriter, r *http.Request) {
		var in noteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		f.mu.Lock()
		defer f.mu.Unlock()
		f.notes[r.PathValue("id")] = append(f.notes[r.PathValue("id")], in.Body)
		w.WriteHeader(http.StatusCreated)
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func TestUpsertContact(t *testing.T) {
	f, srv := newFakeCRM(t)
	c := NewClient(srv.URL, "token")
	ctx := context.Background()

	created, isNew, err := c.UpsertContact(ctx, ContactInput{Email: " Ada@Example.com ", FirstName: "Ada", Source: "contact-form"})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, "ada@example.com", created.Email)

	again, isNew, err := c.UpsertContact(ctx, ContactInput{Email: "ada@example.com"})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, 1, f.creates)
}

func TestFindContactByEmail_NotFound(t *testing.T) {
	_, srv := newFakeCRM(t)
	_, err := NewClient(srv.URL, "token").FindContactByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddNote(t *testing.T) {
	f, srv := newFakeCRM(t)
	c := NewClient(srv.URL, "token")
	require.NoError(t, c.AddNote(context.Background(), "c0", "Interested in an audit"))
	assert.Equal(t, []string{"Interested in an audit"}, f.notes["c0"])
}

func TestStatusError(t *testing.T) {
	_, srv := newFakeCRM(t)
	_, _, err := NewClient(srv.URL, "wrong").UpsertContact(context.Background(), ContactInput{Email: "a@example.com"})
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Equal(t, "find contact", se.Op)
}
