package botcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"secret":   r.PostForm.Get("secret"),
			"response": r.PostForm.Get("response"),
			"remoteip": r.PostForm.Get("remoteip"),
		}
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("response") == "good" {
			w.Write([]byte(`{"success":true,"hostname":"example.com"}`))
			return
		}
		w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer srv.Close()

	c := NewClient("s3cret", srv.URL, nil)
	ctx := context.Background()

	t.Run("accepted", func(t *testing.T) {
		require.NoError(t, c.Verify(ctx, "good", "203.0.113.7"))
		assert.Equal(t, map[string]string{"secret": "s3cret", "response": "good", "remoteip": "203.0.113.7"}, gotForm)
	})

	t.Run("rejected", func(t *testing.T) {
		err := c.Verify(ctx, "bad", "")
		assert.ErrorIs(t, err, ErrChallengeFailed)
		assert.Contains(t, err.Error(), "invalid-input-response")
	})

	t.Run("missing token", func(t *testing.T) {
		assert.ErrorIs(t, c.Verify(ctx, "  ", ""), ErrMissingToken)
	})
}

func TestVerify_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient("s3cret", srv.URL, nil).Verify(context.Background(), "token", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrChallengeFailed)
}

func TestVerify_Disabled(t *testing.T) {
	c := NewClient("", "", nil)
	assert.False(t, c.Enabled())
	assert.NoError(t, c.Verify(context.Background(), "", ""))
}
