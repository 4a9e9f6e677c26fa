package links

import (
	"time"

	"chatman-ops-backend/internal/models"
)

// Validity reasons. ReasonTimeExpired and ReasonExpired both surface as
// "expired" to callers; they are distinct so the lazy-expiry write can fire
// only when the stored status has not caught up yet.
const (
	ReasonRevoked     = "revoked"
	ReasonExpired     = "expired"
	ReasonTimeExpired = "time_expired"
	ReasonUsed        = "already used"
	ReasonUsageLimit  = "usage limit reached"
)

type Result struct {
	Valid  bool
	Reason string
}

// Evaluate classifies a link as valid or invalid at the given instant.
// Rules are checked in order and the first match wins. A stored status of
// revoked/expired/used always beats the time-based check, so a link that was
// already reconciled short-circuits before reaching the clock comparison.
// Pure: no side effects, deterministic for identical inputs.
func Evaluate(link *models.CustomerLink, now time.Time) Result {
	switch link.Status {
	case models.LinkStatusRevoked:
		return Result{Reason: ReasonRevoked}
	case models.LinkStatusExpired:
		return Result{Reason: ReasonExpired}
	case models.LinkStatusUsed:
		return Result{Reason: ReasonUsed}
	}

	if link.ExpiresAt.Valid && link.ExpiresAt.Time.Before(now) {
		return Result{Reason: ReasonTimeExpired}
	}

	if link.MaxUses.Valid && int64(link.UseCount) >= link.MaxUses.Int64 {
		return Result{Reason: ReasonUsageLimit}
	}

	return Result{Valid: true}
}

// PublicMessage maps a validity reason to the message shown to link holders.
func PublicMessage(reason string) string {
	switch reason {
	case ReasonRevoked:
		return "This link has been revoked"
	case ReasonExpired, ReasonTimeExpired:
		return "This link has expired"
	case ReasonUsed:
		return "This link has already been used"
	case ReasonUsageLimit:
		return "This link has reached its usage limit"
	default:
		return "This link is no longer valid"
	}
}
