package auth

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys for authenticated request data
const (
	ContextKeyIdentity = "auth_identity"
	ContextKeyClaims   = "auth_claims"
)

// Identity is the authenticated caller attached to a request.
type Identity struct {
	SubjectID string
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext extracts the identity placed by the middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// Middleware guards routes that require a valid access token.
type Middleware struct {
	tokens   *TokenManager
	denylist Denylist
}

// NewMiddleware creates the authentication gateway. denylist may be nil.
func NewMiddleware(tokens *TokenManager, denylist Denylist) *Middleware {
	return &Middleware{tokens: tokens, denylist: denylist}
}

// Handler returns a Gin middleware that rejects requests without a valid
// bearer token: 401 when no credentials are presented, 403 when the
// presented token is malformed, forged, expired or revoked.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			forbid(c)
			return
		}

		claims, err := m.tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			forbid(c)
			return
		}
		if _, err := ParseSubjectID(claims.Subject); err != nil {
			forbid(c)
			return
		}

		if m.denylist != nil && claims.ID != "" {
			revoked, err := m.denylist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				log.Printf("Failed to check token revocation: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
				})
				return
			}
			if revoked {
				forbid(c)
				return
			}
		}

		identity := Identity{SubjectID: claims.Subject}
		c.Set(ContextKeyIdentity, identity)
		c.Set(ContextKeyClaims, claims)
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

func forbid(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"error": "invalid or expired token",
	})
}

// Helper functions to extract auth data from Gin context

// GetIdentity retrieves the authenticated identity from the context.
func GetIdentity(c *gin.Context) (Identity, bool) {
	if v, exists := c.Get(ContextKeyIdentity); exists {
		if id, ok := v.(Identity); ok {
			return id, true
		}
	}
	return Identity{}, false
}

// GetUserID retrieves the authenticated user's ID from the context.
// Returns 0 if the request is not authenticated.
func GetUserID(c *gin.Context) uint {
	id, ok := GetIdentity(c)
	if !ok {
		return 0
	}
	userID, err := ParseSubjectID(id.SubjectID)
	if err != nil {
		return 0
	}
	return userID
}

// GetClaims retrieves the verified token claims from the context.
func GetClaims(c *gin.Context) *Claims {
	if v, exists := c.Get(ContextKeyClaims); exists {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}
	return nil
}
