package handlers_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"chatman-ops-backend/internal/config"
	"chatman-ops-backend/internal/handlers"
	"chatman-ops-backend/internal/models"
)

const webhookSecret = "whsec_test_secret"

type fakePaymentStore struct {
	completed []string
	failed    []string
	payment   *models.Payment
	err       error
}

func (f *fakePaymentStore) CompletePaymentBySession(sessionID string) (*models.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.completed = append(f.completed, sessionID)
	return f.payment, nil
}

func (f *fakePaymentStore) MarkPaymentFailed(sessionID string) error {
	f.failed = append(f.failed, sessionID)
	return nil
}

func (f *fakePaymentStore) GetQuote(id uuid.UUID) (*models.Quote, error) {
	return nil, sql.ErrNoRows
}

func webhookRouter(store *fakePaymentStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{StripeWebhookSecret: webhookSecret}
	h := handlers.NewWebhookHandler(cfg, store, nil, zap.NewNop())
	router := gin.New()
	router.POST("/api/webhooks/stripe", h.HandleStripeWebhook)
	return router
}

// signPayload produces a Stripe-Signature header for the given body, the
// same t=...,v1=... scheme ConstructEvent verifies.
func signPayload(payload []byte) string {
	timestamp := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)
	return fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func TestStripeWebhook_InvalidSignature(t *testing.T) {
	store := &fakePaymentStore{}
	router := webhookRouter(store)

	payload := []byte(`{"type":"checkout.session.completed"}`)
	req, _ := http.NewRequest("POST", "/api/webhooks/stripe", bytes.NewBuffer(payload))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid webhook signature")
	assert.Empty(t, store.completed)
}

func TestStripeWebhook_SessionCompleted(t *testing.T) {
	store := &fakePaymentStore{
		payment: &models.Payment{
			ID:          uuid.New(),
			QuoteID:     uuid.New(),
			AmountCents: 500_00,
			PaymentType: models.PaymentTypeDeposit,
			Status:      models.PaymentStatusCompleted,
		},
	}
	router := webhookRouter(store)

	payload := []byte(`{"api_version":"2024-06-20","type":"checkout.session.completed","data":{"object":{"id":"cs_test_123"}}}`)
	req, _ := http.NewRequest("POST", "/api/webhooks/stripe", bytes.NewBuffer(payload))
	req.Header.Set("Stripe-Signature", signPayload(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"cs_test_123"}, store.completed)
}

func TestStripeWebhook_UnknownSessionStill200(t *testing.T) {
	store := &fakePaymentStore{err: sql.ErrNoRows}
	router := webhookRouter(store)

	payload := []byte(`{"api_version":"2024-06-20","type":"checkout.session.completed","data":{"object":{"id":"cs_unknown"}}}`)
	req, _ := http.NewRequest("POST", "/api/webhooks/stripe", bytes.NewBuffer(payload))
	req.Header.Set("Stripe-Signature", signPayload(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Stripe keeps retrying on non-2xx; an unknown session is not worth that.
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStripeWebhook_SessionExpired(t *testing.T) {
	store := &fakePaymentStore{}
	router := webhookRouter(store)

	payload := []byte(`{"api_version":"2024-06-20","type":"checkout.session.expired","data":{"object":{"id":"cs_test_456"}}}`)
	req, _ := http.NewRequest("POST", "/api/webhooks/stripe", bytes.NewBuffer(payload))
	req.Header.Set("Stripe-Signature", signPayload(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"cs_test_456"}, store.failed)
	assert.Empty(t, store.completed)
}

func TestStripeWebhook_UnhandledEventIgnored(t *testing.T) {
	store := &fakePaymentStore{}
	router := webhookRouter(store)

	payload := []byte(`{"api_version":"2024-06-20","type":"invoice.paid","data":{"object":{"id":"in_123"}}}`)
	req, _ := http.NewRequest("POST", "/api/webhooks/stripe", bytes.NewBuffer(payload))
	req.Header.Set("Stripe-Signature", signPayload(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.completed)
	assert.Empty(t, store.failed)
}
