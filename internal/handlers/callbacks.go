package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chatman-ops-backend/internal/models"
	"chatman-ops-backend/internal/voice"
)

type CallbacksHandler struct {
	store       CallbackStore
	voiceClient *voice.Client
	logger      *zap.Logger
	baseURL     string
}

func NewCallbacksHandler(store CallbackStore, voiceClient *voice.Client, logger *zap.Logger, baseURL string) *CallbacksHandler {
	return &CallbacksHandler{
		store:       store,
		voiceClient: voiceClient,
		logger:      logger,
		baseURL:     baseURL,
	}
}

// CreateCallback godoc
// @Summary     Request a callback
// @Description Records a marketing-site callback request and, when the calling provider is configured, starts an outbound call. Call failures do not fail the request.
// @Tags        callbacks
// @Accept      json
// @Produce     json
// @Param       request body models.CreateCallbackRequest true "Contact details"
// @Success     200 {object} models.MessageResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     429 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /callback-requests [post]
func (h *CallbacksHandler) CreateCallback(c *gin.Context) {
	var req models.CreateCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "name and phone are required",
			Message: err.Error(),
		})
		return
	}

	record := &models.CallbackRequest{
		Name:   req.Name,
		Phone:  req.Phone,
		Status: "requested",
	}
	if req.Message != "" {
		record.Message = sql.NullString{String: req.Message, Valid: true}
	}

	created, err := h.store.CreateCallbackRequest(record)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to record callback request",
			Message: err.Error(),
		})
		return
	}

	// The call itself is best-effort; the office follows up on "requested"
	// rows either way.
	if h.voiceClient != nil && h.voiceClient.Configured() {
		scriptURL := h.baseURL + "/twiml/callback"
		callSID, err := h.voiceClient.StartCall(req.Phone, scriptURL)
		if err != nil {
			h.logger.Warn("failed to start callback call",
				zap.String("callback_id", created.ID.String()), zap.Error(err))
		} else if err := h.store.UpdateCallbackRequestCall(created.ID, callSID, "calling"); err != nil {
			h.logger.Warn("failed to update callback request",
				zap.String("callback_id", created.ID.String()), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Success: true,
		Message: "Callback requested. We'll be in touch shortly.",
	})
}
