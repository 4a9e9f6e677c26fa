package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"chatman-ops-backend/internal/config"
	"chatman-ops-backend/internal/models"
)

const StaffKey = "staff_session"

// Staff roles
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// StaffSession is the decoded staff session cookie. A missing or invalid
// cookie never produces a partial session: callers either get a verified
// session or nil.
type StaffSession struct {
	UserID string
	Email  string
	Role   string
	TeamID string
}

// IsStaff reports whether the session grants back-office access to customer
// links. Other roles (e.g. technicians) are treated as public callers.
func (s *StaffSession) IsStaff() bool {
	return s != nil && (s.Role == RoleAdmin || s.Role == RoleManager)
}

func parseSession(c *gin.Context, cfg *config.Config) (*StaffSession, error) {
	cookie, err := c.Cookie(cfg.SessionCookie)
	if err != nil || cookie == "" {
		return nil, fmt.Errorf("missing session cookie")
	}

	token, err := jwt.Parse(cookie, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		if cfg.SessionSecret == "" {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(cfg.SessionSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid session claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("missing user id in session")
	}

	session := &StaffSession{UserID: sub}
	if email, ok := claims["email"].(string); ok {
		session.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		session.Role = role
	}
	if teamID, ok := claims["team_id"].(string); ok {
		session.TeamID = teamID
	}

	return session, nil
}

// StaffAuth requires a verified staff session cookie and aborts with 401
// otherwise. Role checks are per-route and live in the handlers.
func StaffAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := parseSession(c, cfg)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "authentication required"})
			c.Abort()
			return
		}

		c.Set(StaffKey, session)
		c.Next()
	}
}

// OptionalStaffAuth decodes the session cookie when present but never aborts.
// Public endpoints use it so staff previews can bypass link-validity
// enforcement without polluting customer-facing usage metrics.
func OptionalStaffAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session, err := parseSession(c, cfg); err == nil {
			c.Set(StaffKey, session)
		}
		c.Next()
	}
}

// StaffFrom returns the verified staff session on the request, or nil.
func StaffFrom(c *gin.Context) *StaffSession {
	v, exists := c.Get(StaffKey)
	if !exists {
		return nil
	}
	session, ok := v.(*StaffSession)
	if !ok {
		return nil
	}
	return session
}
