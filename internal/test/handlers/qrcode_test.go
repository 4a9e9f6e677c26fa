package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"chatman-ops-backend/internal/handlers"
	"chatman-ops-backend/internal/middleware"
	"chatman-ops-backend/internal/models"
)

type fakeQRGenerator struct {
	data string
	size int
	err  error
}

func (f *fakeQRGenerator) Generate(data string, size int) ([]byte, error) {
	f.data = data
	f.size = size
	if f.err != nil {
		return nil, f.err
	}
	return []byte("\x89PNG fake"), nil
}

func qrRouter(store *fakeLinkStore, generator *fakeQRGenerator, sessionSetup gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handlers.NewQRHandler(store, generator, "https://ops.example.com")
	router := gin.New()
	if sessionSetup != nil {
		router.Use(sessionSetup)
	}
	router.GET("/api/customer-links/:token/qr", h.GetLinkQR)
	return router
}

func TestGetLinkQR_EncodesLinkURL(t *testing.T) {
	store := newFakeLinkStore()
	link := seededLink(store, models.LinkStatusActive)
	generator := &fakeQRGenerator{}
	router := qrRouter(store, generator, staffContext(middleware.RoleManager, uuid.New()))

	req, _ := http.NewRequest("GET", "/api/customer-links/"+link.Token+"/qr?size=512", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "https://ops.example.com/c/"+link.Token, generator.data)
	assert.Equal(t, 512, generator.size)
}

func TestGetLinkQR_DefaultSize(t *testing.T) {
	store := newFakeLinkStore()
	link := seededLink(store, models.LinkStatusActive)
	generator := &fakeQRGenerator{}
	router := qrRouter(store, generator, staffContext(middleware.RoleAdmin, uuid.New()))

	req, _ := http.NewRequest("GET", "/api/customer-links/"+link.Token+"/qr?size=9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 300, generator.size)
}

func TestGetLinkQR_NonStaffForbidden(t *testing.T) {
	store := newFakeLinkStore()
	link := seededLink(store, models.LinkStatusActive)
	generator := &fakeQRGenerator{}
	router := qrRouter(store, generator, nil)

	req, _ := http.NewRequest("GET", "/api/customer-links/"+link.Token+"/qr", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetLinkQR_UpstreamFailure(t *testing.T) {
	store := newFakeLinkStore()
	link := seededLink(store, models.LinkStatusActive)
	generator := &fakeQRGenerator{err: errors.New("qr service down")}
	router := qrRouter(store, generator, staffContext(middleware.RoleAdmin, uuid.New()))

	req, _ := http.NewRequest("GET", "/api/customer-links/"+link.Token+"/qr", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
