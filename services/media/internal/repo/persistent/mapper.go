package persistent

import (
	"estate-market/pkg/models"
	"estate-market/services/media/internal/entity"
	"estate-market/services/media/internal/model"
)

func ToUploadSessionEntity(m *model.UploadSessionModel) *entity.UploadSession {
	if m == nil {
		return nil
	}

	return &entity.UploadSession{
		ID:               m.ID,
		Kind:             models.MediaKind(m.Kind),
		OwnerID:          m.OwnerID,
		OwnerRole:        models.UserRole(m.OwnerRole),
		OriginalFilename: m.OriginalFilename,
		TotalChunks:      m.TotalChunks,
		State:            entity.SessionState(m.State),
		FinalFilename:    m.FinalFilename,
		Size:             m.Size,
		FailureReason:    m.FailureReason,
		LastActivity:     m.LastActivity,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func ToUploadSessionModel(e *entity.UploadSession) *model.UploadSessionModel {
	if e == nil {
		return nil
	}

	return &model.UploadSessionModel{
		ID:               e.ID,
		Kind:             string(e.Kind),
		OwnerID:          e.OwnerID,
		OwnerRole:        string(e.OwnerRole),
		OriginalFilename: e.OriginalFilename,
		TotalChunks:      e.TotalChunks,
		State:            string(e.State),
		FinalFilename:    e.FinalFilename,
		Size:             e.Size,
		FailureReason:    e.FailureReason,
		LastActivity:     e.LastActivity,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func ToVideoEntity(m *model.VideoModel) *entity.Video {
	if m == nil {
		return nil
	}

	return &entity.Video{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		Alt:          m.Alt,
		Src:          m.Src,
		Filename:     m.Filename,
		Size:         m.Size,
		UploadID:     m.UploadID,
		UploaderID:   m.UploaderID,
		UploaderRole: m.UploaderRole,
		MirrorURL:    m.MirrorURL,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func ToVideoModel(e *entity.Video) *model.VideoModel {
	if e == nil {
		return nil
	}

	return &model.VideoModel{
		ID:           e.ID,
		Title:        e.Title,
		Description:  e.Description,
		Alt:          e.Alt,
		Src:          e.Src,
		Filename:     e.Filename,
		Size:         e.Size,
		UploadID:     e.UploadID,
		UploaderID:   e.UploaderID,
		UploaderRole: e.UploaderRole,
		MirrorURL:    e.MirrorURL,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
