package handlers

import (
	"time"

	"github.com/google/uuid"

	"chatman-ops-backend/internal/models"
)

// LinkStore is the persistence surface the link handlers need. Implemented
// by *supabase.DatabaseClient.
type LinkStore interface {
	CreateLink(link *models.CustomerLink) (*models.CustomerLink, error)
	GetLinkByToken(token string) (*models.CustomerLink, error)
	ListLinks(teamID uuid.NullUUID) ([]models.CustomerLink, error)
	MarkLinkExpired(id uuid.UUID) error
	RecordLinkAccess(linkID uuid.UUID, ip, userAgent, action string) error
	GetLinkAccessLogs(linkID uuid.UUID) ([]models.LinkAccessLog, error)
	RevokeLink(id, revokedBy uuid.UUID, reason string) (*models.CustomerLink, error)
	ExtendLink(id uuid.UUID, expiresAt time.Time) (*models.CustomerLink, error)
	ReactivateLink(id uuid.UUID, expiresAt time.Time) (*models.CustomerLink, error)
	DeleteLink(id uuid.UUID) error
	GetQuote(id uuid.UUID) (*models.Quote, error)
	MarkQuoteViewed(id uuid.UUID) error
	GetJob(id uuid.UUID) (*models.Job, error)
}

// PaymentStore is the persistence surface of the Stripe webhook handler.
type PaymentStore interface {
	CompletePaymentBySession(sessionID string) (*models.Payment, error)
	MarkPaymentFailed(sessionID string) error
	GetQuote(id uuid.UUID) (*models.Quote, error)
}

// CallbackStore persists marketing-site callback requests.
type CallbackStore interface {
	CreateCallbackRequest(cr *models.CallbackRequest) (*models.CallbackRequest, error)
	UpdateCallbackRequestCall(id uuid.UUID, callSID, status string) error
}
