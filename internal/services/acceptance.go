package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chatman-ops-backend/internal/links"
	"chatman-ops-backend/internal/models"
	"chatman-ops-backend/internal/supabase"
)

// Acceptance outcomes the handler maps to HTTP statuses.
var (
	ErrLinkNotFound   = errors.New("invalid link")
	ErrLinkExpired    = errors.New("link expired")
	ErrLinkNotActive  = errors.New("link not active")
	ErrQuoteNotFound  = errors.New("quote not found")
	ErrQuoteProcessed = errors.New("quote already processed")
)

type AcceptanceStore interface {
	GetLinkByToken(token string) (*models.CustomerLink, error)
	MarkLinkExpired(id uuid.UUID) error
	GetQuote(id uuid.UUID) (*models.Quote, error)
	AcceptQuote(params supabase.AcceptQuoteParams) (*models.QuoteAcceptance, error)
	CreatePayment(p *models.Payment) error
}

type CheckoutCreator interface {
	CreateQuoteCheckout(token string, quote *models.Quote, amountCents int64, paymentType string) (string, string, error)
}

// AcceptanceService stitches quote acceptance together: link resolution and
// reconciliation, the atomic acceptance transaction, and the Stripe Checkout
// handoff. Checkout has external side effects that cannot roll back, so it
// stays outside the transaction and is absorbed on failure: a signed
// acceptance is never lost because payment initiation broke.
type AcceptanceService struct {
	store          AcceptanceStore
	checkout       CheckoutCreator
	realtimeClient *supabase.RealtimeClient
	logger         *zap.Logger
}

func NewAcceptanceService(
	store AcceptanceStore,
	checkout CheckoutCreator,
	realtimeClient *supabase.RealtimeClient,
	logger *zap.Logger,
) *AcceptanceService {
	return &AcceptanceService{
		store:          store,
		checkout:       checkout,
		realtimeClient: realtimeClient,
		logger:         logger,
	}
}

type AcceptInput struct {
	Token          string
	SignatureName  string
	SignatureEmail string
	SignatureType  string
	SignatureData  string
	PaymentOption  string
	IPAddress      string
	UserAgent      string
}

type AcceptOutcome struct {
	Message     string
	CheckoutURL string
}

func (s *AcceptanceService) Accept(input AcceptInput) (*AcceptOutcome, error) {
	link, err := s.store.GetLinkByToken(input.Token)
	if err != nil {
		return nil, ErrLinkNotFound
	}

	res, err := links.Reconcile(s.store, link, time.Now())
	if err != nil {
		s.logger.Warn("failed to persist lazy expiry during acceptance",
			zap.String("token", input.Token), zap.Error(err))
	}
	if res.Reason == links.ReasonExpired || res.Reason == links.ReasonTimeExpired {
		return nil, ErrLinkExpired
	}
	if link.Status != models.LinkStatusActive {
		return nil, ErrLinkNotActive
	}

	if !link.QuoteID.Valid {
		return nil, ErrQuoteNotFound
	}
	quote, err := s.store.GetQuote(link.QuoteID.UUID)
	if err != nil {
		return nil, ErrQuoteNotFound
	}
	if quote.Status != models.QuoteStatusSent && quote.Status != models.QuoteStatusViewed {
		return nil, ErrQuoteProcessed
	}

	paymentType := models.PaymentTypeFull
	amountCents := quote.TotalCents
	var depositCents sql.NullInt64
	if input.PaymentOption == models.PaymentOptionPayDeposit {
		paymentType = models.PaymentTypeDeposit
		if quote.DepositCents.Valid {
			amountCents = quote.DepositCents.Int64
		}
		depositCents = sql.NullInt64{Int64: amountCents, Valid: true}
	}

	signatureType := input.SignatureType
	if signatureType == "" {
		signatureType = "typed"
	}
	var signatureData sql.NullString
	if input.SignatureData != "" {
		signatureData = sql.NullString{String: input.SignatureData, Valid: true}
	}

	// Atomic: conditional quote transition, acceptance insert, approve audit
	// row, link consumption. The conditional update is the race guard; a
	// concurrent acceptance that got there first surfaces here.
	_, err = s.store.AcceptQuote(supabase.AcceptQuoteParams{
		QuoteID:        quote.ID,
		CustomerLinkID: link.ID,
		SignerName:     input.SignatureName,
		SignerEmail:    input.SignatureEmail,
		SignerIP:       input.IPAddress,
		SignerUA:       input.UserAgent,
		SignatureType:  signatureType,
		SignatureData:  signatureData,
		PaymentOption:  input.PaymentOption,
		DepositCents:   depositCents,
	})
	if err != nil {
		if errors.Is(err, supabase.ErrQuoteAlreadyProcessed) {
			return nil, ErrQuoteProcessed
		}
		return nil, err
	}

	if s.realtimeClient != nil {
		if err := s.realtimeClient.PublishTeamEvent(quote.TeamID, "quote_accepted",
			supabase.QuoteAcceptedPayload(quote.ID, link.ID, input.PaymentOption)); err != nil {
			s.logger.Warn("failed to publish quote_accepted event",
				zap.String("quote_id", quote.ID.String()), zap.Error(err))
		}
	}

	if input.PaymentOption == models.PaymentOptionPayLater || amountCents <= 0 {
		return &AcceptOutcome{Message: "Quote accepted successfully"}, nil
	}

	sessionID, checkoutURL, err := s.checkout.CreateQuoteCheckout(input.Token, quote, amountCents, paymentType)
	if err != nil {
		// The acceptance is already committed; a broken payment integration
		// must not turn a signed quote into an error for the customer.
		s.logger.Error("failed to create checkout session",
			zap.String("quote_id", quote.ID.String()), zap.Error(err))
		return &AcceptOutcome{
			Message: "Quote accepted. Payment processing is currently unavailable; our office will follow up to arrange payment.",
		}, nil
	}

	payment := &models.Payment{
		QuoteID:         quote.ID,
		CustomerLinkID:  uuid.NullUUID{UUID: link.ID, Valid: true},
		StripeSessionID: sql.NullString{String: sessionID, Valid: true},
		AmountCents:     amountCents,
		PaymentType:     paymentType,
		Status:          models.PaymentStatusPending,
	}
	if err := s.store.CreatePayment(payment); err != nil {
		s.logger.Error("failed to record pending payment",
			zap.String("quote_id", quote.ID.String()),
			zap.String("session_id", sessionID), zap.Error(err))
	} else if s.realtimeClient != nil {
		_ = s.realtimeClient.PublishTeamEvent(quote.TeamID, "payment_pending",
			supabase.PaymentPendingPayload(quote.ID, amountCents, paymentType))
	}

	return &AcceptOutcome{CheckoutURL: checkoutURL}, nil
}
