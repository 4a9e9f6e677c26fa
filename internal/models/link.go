package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Link types
const (
	LinkTypeQuoteApproval  = "quote_approval"
	LinkTypeJobStatus      = "job_status"
	LinkTypePayment        = "payment"
	LinkTypeDocumentAccess = "document_access"
	LinkTypeFullAccess     = "full_access"
)

// Link statuses
const (
	LinkStatusActive  = "active"
	LinkStatusExpired = "expired"
	LinkStatusRevoked = "revoked"
	LinkStatusUsed    = "used"
)

// Access log actions
const (
	AccessActionView    = "view"
	AccessActionApprove = "approve"
)

type CustomerLink struct {
	ID             uuid.UUID
	TeamID         uuid.UUID
	Token          string
	LinkType       string
	Status         string
	CustomerName   string
	CustomerEmail  string
	QuoteID        uuid.NullUUID
	JobID          uuid.NullUUID
	ExpiresAt      sql.NullTime
	MaxUses        sql.NullInt64
	UseCount       int
	LastAccessedAt sql.NullTime
	RevokedAt      sql.NullTime
	RevokedBy      uuid.NullUUID
	RevokeReason   sql.NullString
	CreatedBy      uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func ValidLinkType(t string) bool {
	switch t {
	case LinkTypeQuoteApproval, LinkTypeJobStatus, LinkTypePayment,
		LinkTypeDocumentAccess, LinkTypeFullAccess:
		return true
	}
	return false
}

type LinkAccessLog struct {
	ID             uuid.UUID
	CustomerLinkID uuid.UUID
	IPAddress      string
	UserAgent      string
	Action         string
	CreatedAt      time.Time
}
