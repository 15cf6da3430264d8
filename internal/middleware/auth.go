package middleware

import (
	"net/http"
	"strings"

	"bidnest/internal/auth"
	dbconfig "bidnest/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	ctxClaims = "claims"
	ctxUserID = "user_id"
)

// Sessions returns the manager that signs user session cookies.
func Sessions() *auth.JWTManager {
	return auth.NewJWTManager(dbconfig.App.JWTSecret, auth.SessionDuration)
}

// Admins returns the manager that signs back-office cookies.
func Admins() *auth.JWTManager {
	return auth.NewJWTManager(dbconfig.App.JWTSecret, auth.AdminDuration)
}

func sessionToken(c *gin.Context) string {
	if token, err := c.Cookie(auth.SessionCookie); err == nil && token != "" {
		return token
	}
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func resolveSession(c *gin.Context) (*auth.Claims, error) {
	claims, err := Sessions().Validate(sessionToken(c))
	if err != nil {
		return nil, err
	}
	revoked, err := auth.Revocations.IsRevoked(c.Request.Context(), claims.ID)
	if err != nil {
		// a revocation store outage should not lock everyone out
		logrus.Warnf("Revocation lookup failed: %v", err)
		return claims, nil
	}
	if revoked {
		return nil, auth.ErrRevokedToken
	}
	return claims, nil
}

// Auth requires a valid session cookie or bearer token.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := resolveSession(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(ctxClaims, claims)
		c.Set(ctxUserID, claims.UserID)
		c.Next()
	}
}

// OptionalAuth loads the session when one is present.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := resolveSession(c); err == nil {
			c.Set(ctxClaims, claims)
			c.Set(ctxUserID, claims.UserID)
		}
		c.Next()
	}
}

// AdminAuth requires a valid back-office cookie. Everything is refused
// while ADMIN_PASSWORD is unset.
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if dbconfig.App.AdminPassword == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		token, _ := c.Cookie(auth.AdminCookie)
		if _, err := Admins().ValidateAdmin(token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// GetClaims returns the session claims set by Auth or OptionalAuth.
func GetClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// GetUserID returns the authenticated user's id, or nil.
func GetUserID(c *gin.Context) *uint {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}

// SetUserID attributes the rest of the request to userID, e.g. right after
// a login that did not pass through Auth.
func SetUserID(c *gin.Context, userID uint) {
	c.Set(ctxUserID, userID)
}
