package links

import (
	"time"

	"github.com/google/uuid"

	"chatman-ops-backend/internal/models"
)

// StatusWriter persists the expired transition during reconciliation.
type StatusWriter interface {
	MarkLinkExpired(id uuid.UUID) error
}

// Reconcile refreshes the stored status from the derived state. The stored
// status column is a cache of the last-known derived state; when the clock
// has passed expires_at on a still-active link, the expired transition is
// persisted and the in-memory row updated so callers can trust link.Status
// afterwards. Called at the top of every handler that reads a link.
func Reconcile(store StatusWriter, link *models.CustomerLink, now time.Time) (Result, error) {
	res := Evaluate(link, now)
	if res.Reason != ReasonTimeExpired {
		return res, nil
	}

	if err := store.MarkLinkExpired(link.ID); err != nil {
		return res, err
	}
	link.Status = models.LinkStatusExpired
	return res, nil
}
