package middleware

import (
	"net/http"
	"strings"

	"travelbook/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = "userID"
	usernameKey = "username"
	roleKey     = "userRole"
)

// TokenParser verifies a bearer token.
type TokenParser interface {
	ParseToken(raw string) (domain.RequestContext, error)
}

func bearer(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func setIdentity(c *gin.Context, rc domain.RequestContext) {
	c.Set(userIDKey, rc.UserID)
	c.Set(usernameKey, rc.Username)
	c.Set(roleKey, string(rc.Role))
}

// AuthRequired rejects requests without a valid bearer token.
func AuthRequired(p TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearer(c)
		if raw == "" {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		rc, err := p.ParseToken(raw)
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}
		setIdentity(c, rc)
		c.Next()
	}
}

// AuthOptional sets the identity when a valid token is present and passes
// through otherwise.
func AuthOptional(p TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearer(c); raw != "" {
			if rc, err := p.ParseToken(raw); err == nil {
				setIdentity(c, rc)
			}
		}
		c.Next()
	}
}

// RequireRoles only lets through identities whose role is in allowedRoles.
// It expects AuthRequired to have run first.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(roleKey)
		if role == "" {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "no role on request")
			return
		}
		if _, ok := allowed[strings.ToLower(strings.TrimSpace(role))]; !ok {
			abortJSON(c, http.StatusForbidden, "forbidden", "role not allowed")
			return
		}
		c.Next()
	}
}

// Identity returns the caller set by the auth middleware.
func Identity(c *gin.Context) (domain.RequestContext, bool) {
	id := c.GetString(userIDKey)
	if id == "" {
		return domain.RequestContext{}, false
	}
	return domain.RequestContext{
		UserID:   id,
		Username: c.GetString(usernameKey),
		Role:     domain.Role(c.GetString(roleKey)),
	}, true
}

func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      msg,
		"code":       code,
		"request_id": GetRequestID(c),
	})
}
