package usecase

import (
	"context"
	"errors"
	"fmt"

	"estate-market/pkg/logger"
	"estate-market/pkg/models"
	"estate-market/services/media/internal/entity"
	"estate-market/services/media/internal/repo/persistent"
	"estate-market/services/media/internal/storage"
)

// ObjectRemover deletes mirrored objects. *s3.Client satisfies it.
type ObjectRemover interface {
	DeleteFile(key string) error
}

type VideoUpdate struct {
	Title       *string
	Description *string
	Alt         *string
}

type VideoUseCase interface {
	List(ctx context.Context, limit, offset int) ([]*entity.Video, int64, error)
	Get(ctx context.Context, id string) (*entity.Video, error)
	Update(ctx context.Context, id string, upd VideoUpdate) (*entity.Video, error)
	Delete(ctx context.Context, id string) error
}

type videoUseCase struct {
	videos persistent.VideoRepository
	media  *storage.MediaStore
	mirror ObjectRemover
	logger *logger.Logger
}

func NewVideoUseCase(videos persistent.VideoRepository, media *storage.MediaStore, mirror ObjectRemover, logger *logger.Logger) VideoUseCase {
	return &videoUseCase{
		videos: videos,
		media:  media,
		mirror: mirror,
		logger: logger,
	}
}

// MirrorKey is the object key a committed file is mirrored under.
func MirrorKey(kind models.MediaKind, filename string) string {
	return kind.Dir() + "/" + filename
}

func (uc *videoUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Video, int64, error) {
	return uc.videos.List(ctx, limit, offset)
}

func (uc *videoUseCase) Get(ctx context.Context, id string) (*entity.Video, error) {
	video, err := uc.videos.GetByID(ctx, id)
	if errors.Is(err, persistent.ErrNotFound) {
		return nil, ErrNotFound
	}
	return video, err
}

func (uc *videoUseCase) Update(ctx context.Context, id string, upd VideoUpdate) (*entity.Video, error) {
	video, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		if *upd.Title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
		}
		video.Title = *upd.Title
	}
	if upd.Description != nil {
		video.Description = *upd.Description
	}
	if upd.Alt != nil {
		video.Alt = *upd.Alt
	}

	if err := uc.videos.Update(ctx, video); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return video, nil
}

// Delete removes the record first, then the local file and its mirror.
// File removal failures are logged; the record is already gone.
func (uc *videoUseCase) Delete(ctx context.Context, id string) error {
	video, err := uc.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.videos.Delete(ctx, id); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := uc.media.Remove(models.MediaVideo, video.Filename); err != nil {
		uc.logger.Error("[VIDEO] Failed to remove file %s: %v", video.Filename, err)
	}
	if uc.mirror != nil {
		if err := uc.mirror.DeleteFile(MirrorKey(models.MediaVideo, video.Filename)); err != nil {
			uc.logger.Error("[VIDEO] Failed to remove mirror of %s: %v", video.Filename, err)
		}
	}
	uc.logger.Info("[VIDEO] Deleted %s (%s)", id, video.Filename)
	return nil
}
