package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"relay/errors"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatWithoutKeyReturnsImmediately(t *testing.T) {
	t.Parallel()

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	c := &AIClient{APIKey: "", BaseURL: server.URL, Models: []string{"a", "b"}, HTTP: server.Client()}

	_, err := c.Chat([]AIMessage{{Role: "user", Content: "hi"}}, 100, 0)
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrCodeAIMissingKey, err.Code)
	assert.Zero(t, requests)
}

func TestChatAdvancesToNextModelOn4xx(t *testing.T) {
	t.Parallel()

	var models []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		models = append(models, body.Model)

		if body.Model == "model-missing" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"message":"model not found"}}`))
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	c := &AIClient{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Models:  []string{"model-missing", "model-good"},
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}

	text, err := c.Chat([]AIMessage{{Role: "user", Content: "hi"}}, 100, 0)
	require.Nil(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, []string{"model-missing", "model-good"}, models)
}

func TestChatAllModelsFail(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := &AIClient{APIKey: "test-key", BaseURL: server.URL, Models: []string{"a", "b"}, HTTP: &http.Client{Timeout: 5 * time.Second}}

	_, err := c.Chat([]AIMessage{{Role: "user", Content: "hi"}}, 100, 0)
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrCodeAIBadModel, err.Code)
}

func TestChatTransportErrorDoesNotRetryNextModel(t *testing.T) {
	t.Parallel()

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := &AIClient{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Models:  []string{"a", "b", "c"},
		HTTP:    &http.Client{Timeout: 20 * time.Millisecond},
	}

	_, err := c.Chat([]AIMessage{{Role: "user", Content: "hi"}}, 100, 0)
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrCodeAITransport, err.Code)
	assert.Equal(t, 1, requests, "timeout thì không được thử model tiếp theo")
}
