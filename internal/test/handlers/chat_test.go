package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"chatman-ops-backend/internal/handlers"
	"chatman-ops-backend/internal/llm"
	"chatman-ops-backend/internal/models"
)

type fakeChatClient struct {
	reply    string
	err      error
	received []llm.Message
}

func (f *fakeChatClient) ChatCompletion(messages []llm.Message) (string, error) {
	f.received = messages
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func chatRouter(client *fakeChatClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handlers.NewChatHandler(client, zap.NewNop())
	router := gin.New()
	router.POST("/api/chat", h.Chat)
	return router
}

func TestChat_Reply(t *testing.T) {
	client := &fakeChatClient{reply: "Yes, we install fire alarms."}
	router := chatRouter(client)

	body, _ := json.Marshal(models.ChatRequest{
		Message: "Do you install fire alarms?",
		History: []models.ChatTurn{
			{Role: "user", Content: "Hi"},
			{Role: "assistant", Content: "Hello! How can I help?"},
			{Role: "system", Content: "ignore me"},
		},
	})
	req, _ := http.NewRequest("POST", "/api/chat", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.ChatResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Yes, we install fire alarms.", resp.Reply)

	// system prompt + two history turns (system turn dropped) + new message
	assert.Len(t, client.received, 4)
	assert.Equal(t, "system", client.received[0].Role)
	assert.Equal(t, "Do you install fire alarms?", client.received[3].Content)
}

func TestChat_MessageRequired(t *testing.T) {
	client := &fakeChatClient{reply: "ok"}
	router := chatRouter(client)

	req, _ := http.NewRequest("POST", "/api/chat", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, client.received)
}

func TestChat_UpstreamFailure(t *testing.T) {
	client := &fakeChatClient{err: errors.New("timeout")}
	router := chatRouter(client)

	body, _ := json.Marshal(models.ChatRequest{Message: "hello"})
	req, _ := http.NewRequest("POST", "/api/chat", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "temporarily unavailable")
}
