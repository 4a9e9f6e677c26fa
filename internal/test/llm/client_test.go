package llm_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"chatman-ops-backend/internal/llm"
)

func TestClient_ChatCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var payload map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "gpt-4o-mini", payload["model"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"We service fire alarms across the metro area."}}]}`))
	}))
	defer server.Close()

	client := llm.NewClient(server.URL, "test-key", "gpt-4o-mini")

	reply, err := client.ChatCompletion([]llm.Message{
		{Role: "user", Content: "Do you service fire alarms?"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "We service fire alarms across the metro area.", reply)
}

func TestClient_ChatCompletion_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	}))
	defer server.Close()

	client := llm.NewClient(server.URL, "test-key", "gpt-4o-mini")

	_, err := client.ChatCompletion([]llm.Message{{Role: "user", Content: "hi"}})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestClient_ChatCompletion_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := llm.NewClient(server.URL, "test-key", "gpt-4o-mini")

	_, err := client.ChatCompletion([]llm.Message{{Role: "user", Content: "hi"}})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no completion choices")
}

func TestClient_RetryWithBackoff(t *testing.T) {
	client := llm.NewClient("https://api.test.com/v1/", "test-key", "gpt-4o-mini")

	callCount := 0
	err := client.RetryWithBackoff(func() error {
		callCount++
		if callCount < 3 {
			return assert.AnError
		}
		return nil
	}, 3)

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
}

func TestClient_RetryWithBackoff_Exhausted(t *testing.T) {
	client := llm.NewClient("https://api.test.com/v1/", "test-key", "gpt-4o-mini")

	err := client.RetryWithBackoff(func() error {
		return assert.AnError
	}, 3)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 3 retries")
}
