// Package guard turns a raw bearer token into an authorization decision.
//
// Every role-gated handler goes through Guard.Authorize, so the token decoding,
// signature check and role allow-list live in exactly one place.
package guard

import (
	"errors"
	"net/http"

	"estate-market/pkg/jwt"
	"estate-market/pkg/models"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("role not allowed")
)

// Identity is the caller decoded from a valid token.
type Identity struct {
	UserID string
	Role   models.UserRole
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role.IsAdmin()
}

// TokenValidator is satisfied by *jwt.Service.
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

type Guard struct {
	tokens TokenValidator
}

func New(tokens TokenValidator) *Guard {
	return &Guard{tokens: tokens}
}

// Authorize checks token against allowed. An empty allow-list admits any
// authenticated role.
func (g *Guard) Authorize(token string, allowed ...models.UserRole) (*Identity, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := g.tokens.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	role := models.UserRole(claims.Role)
	if claims.UserID == "" || !role.Valid() {
		return nil, ErrInvalidToken
	}

	identity := &Identity{UserID: claims.UserID, Role: role}
	if len(allowed) == 0 {
		return identity, nil
	}
	for _, r := range allowed {
		if r == role {
			return identity, nil
		}
	}
	return identity, ErrForbidden
}

// StatusFor maps an Authorize error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrMissingToken), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
