package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient("test-key", "test-model", 5*time.Second).WithBaseURL(srv.URL)
	return c, srv
}

func TestReplySuccess(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"use a mutex"}}]}`))
	})
	defer srv.Close()

	reply, err := c.Reply(context.Background(), "how do I sync?")
	require.NoError(t, err)
	assert.Equal(t, "use a mutex", reply)
}

func TestReplyEmptyChoicesFallsBack(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})
	defer srv.Close()

	reply, err := c.Reply(context.Background(), "hm")
	require.NoError(t, err)
	assert.Equal(t, fallbackReply, reply)
}

func TestReplyFailureClassification(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusBadRequest, ErrContentRejected},
		{http.StatusUnprocessableEntity, ErrContentRejected},
		{http.StatusInternalServerError, ErrUnavailable},
		{http.StatusBadGateway, ErrUnavailable},
	}
	for _, tt := range tests {
		c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		})
		_, err := c.Reply(context.Background(), "hi")
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)
		srv.Close()
	}
}

func TestReplyWithoutKeyIsMisconfigured(t *testing.T) {
	c := NewClient("", "m", time.Second)
	_, err := c.Reply(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserMessages(t *testing.T) {
	// Each failure class maps to its own user-facing message.
	seen := map[string]bool{}
	for _, err := range []error{ErrRateLimited, ErrUnauthorized, ErrContentRejected, ErrUnavailable} {
		msg := UserMessage(err)
		assert.NotEmpty(t, msg)
		assert.False(t, seen[msg], "duplicate message %q", msg)
		seen[msg] = true
	}
}
