package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Quote statuses
const (
	QuoteStatusDraft    = "draft"
	QuoteStatusSent     = "sent"
	QuoteStatusViewed   = "viewed"
	QuoteStatusAccepted = "accepted"
	QuoteStatusRejected = "rejected"
	QuoteStatusExpired  = "expired"
)

// Payment options on acceptance
const (
	PaymentOptionPayLater   = "pay_later"
	PaymentOptionPayNow     = "pay_now"
	PaymentOptionPayDeposit = "pay_deposit"
)

// Payment record types and statuses
const (
	PaymentTypeDeposit = "deposit"
	PaymentTypeFull    = "full"

	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

type Quote struct {
	ID            uuid.UUID
	TeamID        uuid.UUID
	QuoteNumber   string
	CustomerName  string
	CustomerEmail string
	Description   sql.NullString
	Status        string
	TotalCents    int64
	DepositCents  sql.NullInt64
	DocumentPath  sql.NullString
	AcceptedAt    sql.NullTime
	PaidAt        sql.NullTime
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Job struct {
	ID           uuid.UUID
	TeamID       uuid.UUID
	JobNumber    string
	CustomerName string
	Description  sql.NullString
	Status       string
	ScheduledFor sql.NullTime
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type QuoteAcceptance struct {
	ID             uuid.UUID
	QuoteID        uuid.UUID
	CustomerLinkID uuid.UUID
	SignerName     string
	SignerEmail    string
	SignerIP       string
	SignerUA       string
	SignatureType  string
	SignatureData  sql.NullString
	TermsAccepted  bool
	PaymentOption  string
	DepositCents   sql.NullInt64
	CreatedAt      time.Time
}

type Payment struct {
	ID              uuid.UUID
	QuoteID         uuid.UUID
	CustomerLinkID  uuid.NullUUID
	StripeSessionID sql.NullString
	AmountCents     int64
	PaymentType     string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type CallbackRequest struct {
	ID        uuid.UUID
	Name      string
	Phone     string
	Message   sql.NullString
	CallSID   sql.NullString
	Status    string
	CreatedAt time.Time
}
