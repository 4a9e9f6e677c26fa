package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatman-ops-backend/internal/models"
	"chatman-ops-backend/internal/services"
)

type AcceptHandler struct {
	acceptance *services.AcceptanceService
}

func NewAcceptHandler(acceptance *services.AcceptanceService) *AcceptHandler {
	return &AcceptHandler{
		acceptance: acceptance,
	}
}

// AcceptQuote godoc
// @Summary     Accept a quote through a customer link
// @Description Records the customer's signed acceptance and, for pay_now/pay_deposit, opens a hosted checkout session. A checkout failure does not fail the acceptance.
// @Tags        customer-links
// @Accept      json
// @Produce     json
// @Param       token path string true "Link token"
// @Param       request body models.AcceptQuoteRequest true "Acceptance"
// @Success     200 {object} models.AcceptResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /customer-links/{token}/accept [post]
func (h *AcceptHandler) AcceptQuote(c *gin.Context) {
	var req models.AcceptQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "signature_name and signature_email are required",
			Message: err.Error(),
		})
		return
	}

	if !req.TermsAccepted {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "terms must be accepted"})
		return
	}

	paymentOption := req.PaymentOption
	if paymentOption == "" {
		paymentOption = models.PaymentOptionPayLater
	}
	switch paymentOption {
	case models.PaymentOptionPayLater, models.PaymentOptionPayNow, models.PaymentOptionPayDeposit:
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid payment option"})
		return
	}

	outcome, err := h.acceptance.Accept(services.AcceptInput{
		Token:          c.Param("token"),
		SignatureName:  req.SignatureName,
		SignatureEmail: req.SignatureEmail,
		SignatureType:  req.SignatureType,
		SignatureData:  req.SignatureData,
		PaymentOption:  paymentOption,
		IPAddress:      c.ClientIP(),
		UserAgent:      c.Request.UserAgent(),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLinkNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Invalid link"})
		case errors.Is(err, services.ErrLinkExpired):
			c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "This link has expired"})
		case errors.Is(err, services.ErrLinkNotActive):
			c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "This link is no longer active"})
		case errors.Is(err, services.ErrQuoteNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Quote not found"})
		case errors.Is(err, services.ErrQuoteProcessed):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "This quote has already been processed"})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "failed to record acceptance",
				Message: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, models.AcceptResponse{
		Success:     true,
		Message:     outcome.Message,
		CheckoutURL: outcome.CheckoutURL,
	})
}
