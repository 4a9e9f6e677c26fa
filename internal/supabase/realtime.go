package supabase

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
)

// RealtimeClient notifies the admin dashboard of link and payment activity.
// Database writes already trigger Supabase Realtime on the underlying tables;
// PublishEvent exists for explicit events that have no own row to watch.
type RealtimeClient struct {
	client *supabase.Client
}

func NewRealtimeClient(client *supabase.Client) *RealtimeClient {
	return &RealtimeClient{
		client: client,
	}
}

func (r *RealtimeClient) PublishEvent(channel string, event string, payload map[string]interface{}) error {
	// Postgres changes on customer_links / payments reach subscribed
	// dashboards without an explicit publish. Placeholder for the Realtime
	// broadcast REST call if explicit events become necessary.
	return nil
}

func (r *RealtimeClient) PublishTeamEvent(teamID uuid.UUID, event string, payload map[string]interface{}) error {
	channel := fmt.Sprintf("team:%s", teamID.String())
	return r.PublishEvent(channel, event, payload)
}

func (r *RealtimeClient) PublishLinkEvent(linkID uuid.UUID, event string, payload map[string]interface{}) error {
	channel := fmt.Sprintf("customer_link:%s", linkID.String())
	return r.PublishEvent(channel, event, payload)
}

// Event payloads
func LinkRevokedPayload(linkID uuid.UUID, reason string) map[string]interface{} {
	return map[string]interface{}{
		"link_id": linkID.String(),
		"status":  "revoked",
		"reason":  reason,
	}
}

func QuoteAcceptedPayload(quoteID, linkID uuid.UUID, paymentOption string) map[string]interface{} {
	return map[string]interface{}{
		"quote_id":       quoteID.String(),
		"link_id":        linkID.String(),
		"status":         "accepted",
		"payment_option": paymentOption,
	}
}

func PaymentPendingPayload(quoteID uuid.UUID, amountCents int64, paymentType string) map[string]interface{} {
	return map[string]interface{}{
		"quote_id":     quoteID.String(),
		"status":       "pending",
		"amount_cents": amountCents,
		"payment_type": paymentType,
	}
}

func PaymentCompletedPayload(quoteID uuid.UUID, amountCents int64, paymentType string) map[string]interface{} {
	return map[string]interface{}{
		"quote_id":     quoteID.String(),
		"status":       "completed",
		"amount_cents": amountCents,
		"payment_type": paymentType,
	}
}
