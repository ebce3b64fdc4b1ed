package persistent

import (
	"context"
	"errors"
	"time"

	"estate-market/services/media/internal/entity"
	"estate-market/services/media/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("record not found")

// SessionUpdate carries the optional columns written alongside a state change.
type SessionUpdate struct {
	At            time.Time
	TotalChunks   int
	FinalFilename string
	Size          int64
	FailureReason string
}

type SessionRepository interface {
	// Create inserts s unless a row with the same id exists and reports whether it inserted.
	Create(ctx context.Context, s *entity.UploadSession) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.UploadSession, error)
	Touch(ctx context.Context, id string, at time.Time) error
	// Transition moves the session to `to` only while it is in one of `from`.
	Transition(ctx context.Context, id string, from []entity.SessionState, to entity.SessionState, upd SessionUpdate) (bool, error)
	ListIdle(ctx context.Context, states []entity.SessionState, before time.Time, limit int) ([]*entity.UploadSession, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, s *entity.UploadSession) (bool, error) {
	sessionModel := ToUploadSessionModel(s)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(sessionModel)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*entity.UploadSession, error) {
	var sessionModel model.UploadSessionModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&sessionModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToUploadSessionEntity(&sessionModel), nil
}

func (r *sessionRepository) Touch(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.UploadSessionModel{}).
		Where("id = ? AND state = ?", id, string(entity.StateCollecting)).
		Updates(map[string]interface{}{"last_activity": at, "updated_at": at}).Error
}

func (r *sessionRepository) Transition(ctx context.Context, id string, from []entity.SessionState, to entity.SessionState, upd SessionUpdate) (bool, error) {
	states := make([]string, len(from))
	for i, s := range from {
		states[i] = string(s)
	}

	values := map[string]interface{}{
		"state":          string(to),
		"failure_reason": upd.FailureReason,
		"last_activity":  upd.At,
		"updated_at":     upd.At,
	}
	if upd.TotalChunks > 0 {
		values["total_chunks"] = upd.TotalChunks
	}
	if upd.FinalFilename != "" {
		values["final_filename"] = upd.FinalFilename
	}
	if upd.Size > 0 {
		values["size"] = upd.Size
	}

	res := r.db.WithContext(ctx).
		Model(&model.UploadSessionModel{}).
		Where("id = ? AND state IN ?", id, states).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *sessionRepository) ListIdle(ctx context.Context, states []entity.SessionState, before time.Time, limit int) ([]*entity.UploadSession, error) {
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = string(s)
	}

	var sessionModels []model.UploadSessionModel
	if err := r.db.WithContext(ctx).
		Where("state IN ? AND last_activity < ?", names, before).
		Order("last_activity ASC").
		Limit(limit).
		Find(&sessionModels).Error; err != nil {
		return nil, err
	}

	sessions := make([]*entity.UploadSession, len(sessionModels))
	for i := range sessionModels {
		sessions[i] = ToUploadSessionEntity(&sessionModels[i])
	}
	return sessions, nil
}
