package models

import "time"

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type AcceptResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	CheckoutURL string `json:"checkout_url,omitempty"`
}

// PublicLinkView is the public-safe projection of a customer link. Internal
// fields (revoke metadata, admin ids, raw audit trail) are never included.
type PublicLinkView struct {
	Token         string         `json:"token"`
	LinkType      string         `json:"link_type"`
	CustomerName  string         `json:"customer_name"`
	CustomerEmail string         `json:"customer_email,omitempty"`
	IsValid       bool           `json:"is_valid"`
	ExpiresAt     *time.Time     `json:"expires_at,omitempty"`
	Quote         *QuoteSnapshot `json:"quote,omitempty"`
	Job           *JobSnapshot   `json:"job,omitempty"`
	DocumentURL   string         `json:"document_url,omitempty"`
}

type QuoteSnapshot struct {
	ID           string     `json:"id"`
	QuoteNumber  string     `json:"quote_number"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	TotalCents   int64      `json:"total_cents"`
	DepositCents int64      `json:"deposit_cents,omitempty"`
	AcceptedAt   *time.Time `json:"accepted_at,omitempty"`
}

type JobSnapshot struct {
	ID           string     `json:"id"`
	JobNumber    string     `json:"job_number"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
}

// LinkDetail is the unfiltered staff view of a customer link.
type LinkDetail struct {
	ID             string     `json:"id"`
	TeamID         string     `json:"team_id"`
	Token          string     `json:"token"`
	URL            string     `json:"url"`
	LinkType       string     `json:"link_type"`
	Status         string     `json:"status"`
	CustomerName   string     `json:"customer_name"`
	CustomerEmail  string     `json:"customer_email,omitempty"`
	QuoteID        string     `json:"quote_id,omitempty"`
	JobID          string     `json:"job_id,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	MaxUses        *int64     `json:"max_uses,omitempty"`
	UseCount       int        `json:"use_count"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
	RevokedAt      *time.Time `json:"revoked_at,omitempty"`
	RevokedBy      string     `json:"revoked_by,omitempty"`
	RevokeReason   string     `json:"revoke_reason,omitempty"`
	IsValid        bool       `json:"is_valid"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type AccessLogEntry struct {
	ID        string    `json:"id"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

type AccessLogListResponse struct {
	Success bool             `json:"success"`
	Data    []AccessLogEntry `json:"data"`
}

type ChatResponse struct {
	Success bool   `json:"success"`
	Reply   string `json:"reply"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
