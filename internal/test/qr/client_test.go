package qr_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"chatman-ops-backend/internal/qr"
)

func TestClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/create-qr-code/", r.URL.Path)
		assert.Equal(t, "https://ops.example.com/c/tok123", r.URL.Query().Get("data"))
		assert.Equal(t, "512x512", r.URL.Query().Get("size"))
		assert.Equal(t, "png", r.URL.Query().Get("format"))

		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("\x89PNG fake"))
	}))
	defer server.Close()

	client := qr.NewClient(server.URL)

	png, err := client.Generate("https://ops.example.com/c/tok123", 512)

	assert.NoError(t, err)
	assert.NotEmpty(t, png)
}

func TestClient_Generate_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := qr.NewClient(server.URL)

	_, err := client.Generate("data", 300)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}
