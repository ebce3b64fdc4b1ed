package entity

import (
	"time"

	"estate-market/pkg/models"
)

type SessionState string

const (
	StateCollecting SessionState = "collecting"
	StateFinalizing SessionState = "finalizing"
	StateCommitted  SessionState = "committed"
	StateFailed     SessionState = "failed"
	StateExpired    SessionState = "expired"
)

// UploadSession tracks one chunked upload from its first chunk to commit or expiry.
type UploadSession struct {
	ID               string           `json:"upload_id"`
	Kind             models.MediaKind `json:"kind"`
	OwnerID          string           `json:"owner_id"`
	OwnerRole        models.UserRole  `json:"owner_role"`
	OriginalFilename string           `json:"original_filename"`
	TotalChunks      int              `json:"total_chunks"`
	State            SessionState     `json:"state"`
	FinalFilename    string           `json:"final_filename,omitempty"`
	Size             int64            `json:"size"`
	FailureReason    string           `json:"failure_reason,omitempty"`
	LastActivity     time.Time        `json:"last_activity"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// OwnedBy reports whether userID started the session.
func (s *UploadSession) OwnedBy(userID string) bool {
	return s.OwnerID == userID
}
