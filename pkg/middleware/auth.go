package middleware

import (
	"errors"
	"strings"

	"estate-market/pkg/guard"
	"estate-market/pkg/models"
	"estate-market/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	TokenHeader = "token"

	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
)

// TokenFromRequest reads the `token` header and falls back to `Authorization: Bearer`.
func TokenFromRequest(c *gin.Context) string {
	if token := strings.TrimSpace(c.GetHeader(TokenHeader)); token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// RequireRoles rejects the request unless the token decodes to one of roles.
// With no roles any authenticated caller passes.
func RequireRoles(g *guard.Guard, roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := g.Authorize(TokenFromRequest(c), roles...)
		if err != nil {
			status := guard.StatusFor(err)
			switch {
			case errors.Is(err, guard.ErrMissingToken):
				response.Fail(c, status, response.MsgMissingToken)
			case errors.Is(err, guard.ErrInvalidToken):
				response.Fail(c, status, response.MsgInvalidToken)
			default:
				response.Fail(c, status, response.MsgForbidden)
			}
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// OptionalIdentity attaches the caller when a valid token is present and never rejects.
func OptionalIdentity(g *guard.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, err := g.Authorize(TokenFromRequest(c)); err == nil {
			setIdentity(c, identity)
		}
		c.Next()
	}
}

// IdentityFrom returns the identity set by RequireRoles or OptionalIdentity, or nil.
func IdentityFrom(c *gin.Context) *guard.Identity {
	userID := c.GetString(ContextUserID)
	if userID == "" {
		return nil
	}
	return &guard.Identity{
		UserID: userID,
		Role:   models.UserRole(c.GetString(ContextUserRole)),
	}
}

func setIdentity(c *gin.Context, identity *guard.Identity) {
	c.Set(ContextUserID, identity.UserID)
	c.Set(ContextUserRole, string(identity.Role))
}
