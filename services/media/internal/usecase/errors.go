package usecase

import (
	"errors"

	"estate-market/services/media/internal/storage"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

// MissingChunkError is returned by Finalize when a chunk index is absent.
type MissingChunkError = storage.MissingChunkError
