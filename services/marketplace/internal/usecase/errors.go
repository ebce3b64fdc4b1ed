package usecase

import (
	"errors"

	"estate-market/services/marketplace/internal/repo/persistent"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// notFound maps the repository sentinel onto ErrNotFound and passes anything else through.
func notFound(err error) error {
	if errors.Is(err, persistent.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
