package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chatman-ops-backend/internal/llm"
	"chatman-ops-backend/internal/models"
)

const chatSystemPrompt = "You are the website assistant for a fire alarm and " +
	"security services company. Answer questions about fire alarm installation, " +
	"inspections, monitoring, and security systems. Be brief and helpful. For " +
	"pricing or scheduling, suggest requesting a callback or a quote."

// ChatClient is the completion surface the chat widget needs.
type ChatClient interface {
	ChatCompletion(messages []llm.Message) (string, error)
}

type ChatHandler struct {
	client ChatClient
	logger *zap.Logger
}

func NewChatHandler(client ChatClient, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		client: client,
		logger: logger,
	}
}

// Chat godoc
// @Summary     Marketing-site chat widget
// @Description Proxies the chat widget conversation to the LLM vendor. Rate limited per client IP.
// @Tags        chat
// @Accept      json
// @Produce     json
// @Param       request body models.ChatRequest true "Message and optional history"
// @Success     200 {object} models.ChatResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     429 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "message is required",
			Message: err.Error(),
		})
		return
	}

	messages := make([]llm.Message, 0, len(req.History)+2)
	messages = append(messages, llm.Message{Role: "system", Content: chatSystemPrompt})
	for _, turn := range req.History {
		if turn.Role != "user" && turn.Role != "assistant" {
			continue
		}
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: req.Message})

	reply, err := h.client.ChatCompletion(messages)
	if err != nil {
		h.logger.Warn("chat completion failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error: "chat is temporarily unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{Success: true, Reply: reply})
}
