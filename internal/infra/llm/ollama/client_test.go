package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmdomain "github.com/smartconsult/consult-engine/internal/domain/llm"
)

func TestCompleteSuccess(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(generateResponse{Response: "Strengths:\n- Strong brand\n"})
	}))
	defer srv.Close()

	c := New(srv.URL, "llama3.1")
	out, err := c.Complete(context.Background(), "analyze this", llmdomain.Options{System: "persona"})
	require.NoError(t, err)
	assert.Equal(t, "Strengths:\n- Strong brand", out)
	assert.Equal(t, "llama3.1", got.Model)
	assert.Equal(t, "persona", got.System)
	assert.False(t, got.Stream)
}

func TestCompleteModelOverride(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(generateResponse{Response: "ok"})
	}))
	defer srv.Close()

	c := New(srv.URL, "llama3.1")
	_, err := c.Complete(context.Background(), "p", llmdomain.Options{Model: "mistral"})
	require.NoError(t, err)
	assert.Equal(t, "mistral", got.Model)
}

func TestCompleteStatusMapping(t *testing.T) {
	for status, want := range map[int]error{
		http.StatusTooManyRequests:     llmdomain.ErrRateLimited,
		http.StatusUnauthorized:        llmdomain.ErrAuthFailed,
		http.StatusInternalServerError: llmdomain.ErrProviderUnreachable,
		http.StatusNotFound:            llmdomain.ErrMalformedResponse,
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		c := New(srv.URL, "")
		_, err := c.Complete(context.Background(), "p", llmdomain.Options{})
		assert.True(t, errors.Is(err, want), "status=%d err=%v", status, err)
		srv.Close()
	}
}

func TestCompleteEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Response: "   "})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Complete(context.Background(), "p", llmdomain.Options{})
	assert.True(t, errors.Is(err, llmdomain.ErrMalformedResponse))
}

func TestCompleteDaemonDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL, "")
	_, err := c.Complete(context.Background(), "p", llmdomain.Options{})
	assert.True(t, errors.Is(err, llmdomain.ErrProviderUnreachable))
}

func TestCompleteInBandError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Error: "model not found"})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Complete(context.Background(), "p", llmdomain.Options{})
	assert.True(t, errors.Is(err, llmdomain.ErrMalformedResponse))
}
