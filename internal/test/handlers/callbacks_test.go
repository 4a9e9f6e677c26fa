package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"chatman-ops-backend/internal/handlers"
	"chatman-ops-backend/internal/models"
)

type fakeCallbackStore struct {
	created []*models.CallbackRequest
	calls   []string
}

func (f *fakeCallbackStore) CreateCallbackRequest(cr *models.CallbackRequest) (*models.CallbackRequest, error) {
	cr.ID = uuid.New()
	f.created = append(f.created, cr)
	cp := *cr
	return &cp, nil
}

func (f *fakeCallbackStore) UpdateCallbackRequestCall(id uuid.UUID, callSID, status string) error {
	f.calls = append(f.calls, callSID)
	return nil
}

func callbacksRouter(store *fakeCallbackStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	// No voice client configured; the request should still succeed.
	h := handlers.NewCallbacksHandler(store, nil, zap.NewNop(), "https://ops.example.com")
	router := gin.New()
	router.POST("/api/callback-requests", h.CreateCallback)
	return router
}

func TestCreateCallback_Persisted(t *testing.T) {
	store := &fakeCallbackStore{}
	router := callbacksRouter(store)

	body := []byte(`{"name":"Pat Chatman","phone":"+15551230000","message":"Panel beeping"}`)
	req, _ := http.NewRequest("POST", "/api/callback-requests", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Callback requested")

	assert.Len(t, store.created, 1)
	assert.Equal(t, "requested", store.created[0].Status)
	assert.Equal(t, "Panel beeping", store.created[0].Message.String)
	assert.Empty(t, store.calls)
}

func TestCreateCallback_PhoneRequired(t *testing.T) {
	store := &fakeCallbackStore{}
	router := callbacksRouter(store)

	body := []byte(`{"name":"Pat Chatman"}`)
	req, _ := http.NewRequest("POST", "/api/callback-requests", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.created)
}
