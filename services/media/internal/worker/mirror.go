package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"estate-market/pkg/logger"
	"estate-market/pkg/models"
	"estate-market/pkg/pathsafe"
	"estate-market/pkg/queue"
	"estate-market/services/media/internal/storage"
	"estate-market/services/media/internal/usecase"
)

// ObjectUploader is satisfied by *s3.Client.
type ObjectUploader interface {
	UploadFile(key string, body io.ReadSeeker, contentType string) (string, error)
}

type MirrorRecorder interface {
	SetMirrorURL(ctx context.Context, filename, url string) error
}

// EventConsumer is satisfied by *queue.Client.
type EventConsumer interface {
	ConsumeMediaCommitted(ctx context.Context, handler func(context.Context, queue.MediaCommitted) error) error
}

// Mirror copies committed media into object storage.
type Mirror struct {
	media    *storage.MediaStore
	uploader ObjectUploader
	videos   MirrorRecorder
	logger   *logger.Logger
}

func NewMirror(media *storage.MediaStore, uploader ObjectUploader, videos MirrorRecorder, logger *logger.Logger) *Mirror {
	return &Mirror{
		media:    media,
		uploader: uploader,
		videos:   videos,
		logger:   logger,
	}
}

func (m *Mirror) Start(ctx context.Context, consumer EventConsumer) error {
	return consumer.ConsumeMediaCommitted(ctx, m.Handle)
}

// Handle uploads one committed file. Events naming files that can never be
// read are reported as permanent so they are not redelivered.
func (m *Mirror) Handle(ctx context.Context, event queue.MediaCommitted) error {
	kind := models.MediaKind(event.Kind)
	path, _, err := m.media.Stat(kind, event.Filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, pathsafe.ErrInvalidSegment) || errors.Is(err, storage.ErrUnknownKind) {
			return &queue.ErrPermanent{Err: fmt.Errorf("mirror %s/%s: %w", event.Kind, event.Filename, err)}
		}
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", event.Filename, err)
	}
	defer f.Close()

	url, err := m.uploader.UploadFile(usecase.MirrorKey(kind, event.Filename), f, usecase.ContentType(event.Filename))
	if err != nil {
		return err
	}

	if kind == models.MediaVideo && m.videos != nil {
		if err := m.videos.SetMirrorURL(ctx, event.Filename, url); err != nil {
			m.logger.Warn("[MIRROR] Uploaded %s but failed to record URL: %v", event.Filename, err)
		}
	}
	m.logger.Info("[MIRROR] Mirrored %s to %s", event.Filename, url)
	return nil
}
