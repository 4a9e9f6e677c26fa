package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"chatman-ops-backend/internal/config"
	"chatman-ops-backend/internal/middleware"
)

func testConfig() *config.Config {
	return &config.Config{
		SessionSecret: "test-secret-key-for-jwt-signing-must-be-long-enough",
		SessionCookie: "admin_session",
	}
}

func signSession(t *testing.T, cfg *config.Config, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.SessionSecret))
	assert.NoError(t, err)
	return signed
}

func TestStaffAuth_NoCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	router := gin.New()
	router.Use(middleware.StaffAuth(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStaffAuth_InvalidCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	router := gin.New()
	router.Use(middleware.StaffAuth(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: cfg.SessionCookie, Value: "not-a-jwt"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStaffAuth_WrongSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-123"})
	signed, _ := token.SignedString([]byte("a-different-secret-entirely-0000"))

	router := gin.New()
	router.Use(middleware.StaffAuth(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: cfg.SessionCookie, Value: signed})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStaffAuth_ValidCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	signed := signSession(t, cfg, jwt.MapClaims{
		"sub":     "user-123",
		"email":   "ops@example.com",
		"role":    "manager",
		"team_id": "team-456",
	})

	router := gin.New()
	router.Use(middleware.StaffAuth(cfg))
	router.GET("/test", func(c *gin.Context) {
		session := middleware.StaffFrom(c)
		assert.NotNil(t, session)
		assert.Equal(t, "user-123", session.UserID)
		assert.Equal(t, "ops@example.com", session.Email)
		assert.Equal(t, "manager", session.Role)
		assert.Equal(t, "team-456", session.TeamID)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: cfg.SessionCookie, Value: signed})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalStaffAuth_NoCookieContinues(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	router := gin.New()
	router.Use(middleware.OptionalStaffAuth(cfg))
	router.GET("/test", func(c *gin.Context) {
		assert.Nil(t, middleware.StaffFrom(c))
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalStaffAuth_ValidCookieDecoded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	signed := signSession(t, cfg, jwt.MapClaims{"sub": "user-123", "role": "admin"})

	router := gin.New()
	router.Use(middleware.OptionalStaffAuth(cfg))
	router.GET("/test", func(c *gin.Context) {
		session := middleware.StaffFrom(c)
		assert.NotNil(t, session)
		assert.True(t, session.IsStaff())
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: cfg.SessionCookie, Value: signed})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStaffSession_IsStaff(t *testing.T) {
	var nilSession *middleware.StaffSession
	assert.False(t, nilSession.IsStaff())
	assert.True(t, (&middleware.StaffSession{Role: middleware.RoleAdmin}).IsStaff())
	assert.True(t, (&middleware.StaffSession{Role: middleware.RoleManager}).IsStaff())
	assert.False(t, (&middleware.StaffSession{Role: "technician"}).IsStaff())
}
