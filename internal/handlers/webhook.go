package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"

	"chatman-ops-backend/internal/config"
	"chatman-ops-backend/internal/models"
	"chatman-ops-backend/internal/supabase"
)

type WebhookHandler struct {
	config         *config.Config
	store          PaymentStore
	realtimeClient *supabase.RealtimeClient
	logger         *zap.Logger
}

func NewWebhookHandler(cfg *config.Config, store PaymentStore, realtimeClient *supabase.RealtimeClient, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		config:         cfg,
		store:          store,
		realtimeClient: realtimeClient,
		logger:         logger,
	}
}

// HandleStripeWebhook godoc
// @Summary     Stripe webhook endpoint
// @Description Confirms pending payments when Stripe reports a completed checkout session. Signature-verified; no staff session involved.
// @Tags        webhooks
// @Accept      json
// @Produce     json
// @Param       Stripe-Signature header string true "Stripe signature header"
// @Success     200 {object} map[string]string "status"
// @Failure     400 {object} models.ErrorResponse
// @Router      /webhooks/stripe [post]
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read request body",
			Message: err.Error(),
		})
		return
	}

	event, err := webhook.ConstructEvent(body, c.GetHeader("Stripe-Signature"), h.config.StripeWebhookSecret)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid webhook signature"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "failed to parse event",
				Message: err.Error(),
			})
			return
		}

		payment, err := h.store.CompletePaymentBySession(session.ID)
		if err != nil {
			// Unknown or already-settled sessions still get a 200 so Stripe
			// stops retrying; operators see the log.
			h.logger.Warn("no pending payment for completed checkout session",
				zap.String("session_id", session.ID), zap.Error(err))
			break
		}

		h.logger.Info("payment completed",
			zap.String("session_id", session.ID),
			zap.String("quote_id", payment.QuoteID.String()),
			zap.Int64("amount_cents", payment.AmountCents))

		if h.realtimeClient != nil {
			if quote, err := h.store.GetQuote(payment.QuoteID); err == nil {
				_ = h.realtimeClient.PublishTeamEvent(quote.TeamID, "payment_completed",
					supabase.PaymentCompletedPayload(payment.QuoteID, payment.AmountCents, payment.PaymentType))
			}
		}

	case "checkout.session.expired":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "failed to parse event",
				Message: err.Error(),
			})
			return
		}

		if err := h.store.MarkPaymentFailed(session.ID); err != nil {
			h.logger.Warn("failed to mark payment failed",
				zap.String("session_id", session.ID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
