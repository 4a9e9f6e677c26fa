package models

type CreateLinkRequest struct {
	LinkType      string `json:"link_type" binding:"required" example:"quote_approval"`
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email"`
	QuoteID       string `json:"quote_id,omitempty"`
	JobID         string `json:"job_id,omitempty"`
	// ExpiresInDays controls link lifetime. Omitted means 30 days, 0 means
	// the link never expires.
	ExpiresInDays *int `json:"expires_in_days,omitempty"`
	MaxUses       *int `json:"max_uses,omitempty"`
}

type LinkActionRequest struct {
	Action      string `json:"action" binding:"required" example:"revoke"`
	Reason      string `json:"reason,omitempty"`
	ExtendsDays int    `json:"extends_days,omitempty" example:"30"`
}

type AcceptQuoteRequest struct {
	SignatureName  string `json:"signature_name" binding:"required"`
	SignatureEmail string `json:"signature_email" binding:"required"`
	SignatureType  string `json:"signature_type,omitempty" example:"typed"`
	SignatureData  string `json:"signature_data,omitempty"`
	TermsAccepted  bool   `json:"terms_accepted"`
	PaymentOption  string `json:"payment_option,omitempty" example:"pay_later"`
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
	// History carries earlier turns of the widget conversation, oldest first.
	History []ChatTurn `json:"history,omitempty"`
}

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type CreateCallbackRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Message string `json:"message,omitempty"`
}
