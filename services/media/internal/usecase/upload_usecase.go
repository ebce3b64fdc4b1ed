package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"estate-market/pkg/guard"
	"estate-market/pkg/logger"
	"estate-market/pkg/models"
	"estate-market/pkg/pathsafe"
	"estate-market/pkg/queue"
	"estate-market/services/media/internal/entity"
	"estate-market/services/media/internal/repo/persistent"
	"estate-market/services/media/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var allowedExtensions = map[models.MediaKind]map[string]bool{
	models.MediaVideo: {".mp4": true, ".webm": true, ".mov": true, ".mkv": true, ".m4v": true},
	models.MediaImage: {".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true},
}

var contentTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

const sweepBatchSize = 500

type ChunkInput struct {
	UploadID string
	Index    int
	Total    int
	Filename string
	Body     io.Reader
}

type ChunkResult struct {
	UploadID    string
	ChunkIndex  int
	TotalChunks int
	Received    int
}

type FinalizeInput struct {
	UploadID    string
	TotalChunks int
	Filename    string
	Title       string
	Description string
	Alt         string
}

type FinalizeResult struct {
	UploadID string
	Filename string
	URL      string
	Size     int64
	Video    *entity.Video
}

type UploadStatus struct {
	Session  *entity.UploadSession
	Received []int
}

type SweepReport struct {
	Expired int
	Orphans int
}

// EventPublisher announces committed media. *queue.Client satisfies it.
type EventPublisher interface {
	PublishMediaCommitted(ctx context.Context, event queue.MediaCommitted) error
}

type UploadUseCase interface {
	UploadChunk(ctx context.Context, caller *guard.Identity, kind models.MediaKind, in ChunkInput) (*ChunkResult, error)
	Finalize(ctx context.Context, caller *guard.Identity, kind models.MediaKind, in FinalizeInput) (*FinalizeResult, error)
	Cancel(ctx context.Context, caller *guard.Identity, uploadID string) error
	Status(ctx context.Context, caller *guard.Identity, uploadID string) (*UploadStatus, error)
	SweepExpired(ctx context.Context, now time.Time) (*SweepReport, error)
}

type uploadUseCase struct {
	sessions   persistent.SessionRepository
	videos     persistent.VideoRepository
	chunks     *storage.ChunkStore
	media      *storage.MediaStore
	publisher  EventPublisher
	sessionTTL time.Duration
	finalizing singleflight.Group
	now        func() time.Time
	logger     *logger.Logger
}

func NewUploadUseCase(
	sessions persistent.SessionRepository,
	videos persistent.VideoRepository,
	chunks *storage.ChunkStore,
	media *storage.MediaStore,
	publisher EventPublisher,
	sessionTTL time.Duration,
	logger *logger.Logger,
) UploadUseCase {
	return &uploadUseCase{
		sessions:   sessions,
		videos:     videos,
		chunks:     chunks,
		media:      media,
		publisher:  publisher,
		sessionTTL: sessionTTL,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger,
	}
}

// MediaURL is the public path a committed file is served from.
func MediaURL(kind models.MediaKind, filename string) string {
	return "/media/" + kind.Dir() + "/" + filename
}

// FinalExtension returns the lower-cased extension of filename if kind accepts it.
func FinalExtension(kind models.MediaKind, filename string) (string, error) {
	ext := pathsafe.Ext(filepath.Base(filename))
	if !allowedExtensions[kind][ext] {
		return "", fmt.Errorf("%w: extension %q not allowed for %s", ErrValidation, ext, kind)
	}
	return ext, nil
}

// ContentType maps a committed filename to its MIME type.
func ContentType(filename string) string {
	if ct, ok := contentTypes[pathsafe.Ext(filename)]; ok {
		return ct
	}
	return "application/octet-stream"
}

func generateFilename(now time.Time, ext string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%d-%s%s", now.UnixNano(), suffix, ext)
}

func validateUploadID(uploadID string) error {
	if err := pathsafe.ValidateSegment(uploadID); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func (uc *uploadUseCase) UploadChunk(ctx context.Context, caller *guard.Identity, kind models.MediaKind, in ChunkInput) (*ChunkResult, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown media kind", ErrValidation)
	}
	if err := validateUploadID(in.UploadID); err != nil {
		return nil, err
	}
	if in.Total <= 0 || in.Total > storage.MaxChunks {
		return nil, fmt.Errorf("%w: totalChunks must be in [1,%d]", ErrValidation, storage.MaxChunks)
	}
	if in.Index < 0 || in.Index >= in.Total {
		return nil, fmt.Errorf("%w: chunkIndex %d outside [0,%d)", ErrValidation, in.Index, in.Total)
	}
	if in.Filename != "" {
		if _, err := FinalExtension(kind, in.Filename); err != nil {
			return nil, err
		}
	}

	session, err := uc.openSession(ctx, caller, kind, in)
	if err != nil {
		return nil, err
	}
	if !session.OwnedBy(caller.UserID) {
		return nil, ErrForbidden
	}
	if session.Kind != kind {
		return nil, fmt.Errorf("%w: upload %s is a %s upload", ErrConflict, session.ID, session.Kind)
	}
	if session.State != entity.StateCollecting {
		return nil, fmt.Errorf("%w: upload %s is %s", ErrConflict, session.ID, session.State)
	}
	if session.TotalChunks != in.Total {
		return nil, fmt.Errorf("%w: totalChunks changed from %d to %d", ErrValidation, session.TotalChunks, in.Total)
	}

	if _, err := uc.chunks.WriteChunk(in.UploadID, in.Index, in.Body); err != nil {
		return nil, fmt.Errorf("failed to store chunk: %w", err)
	}
	if err := uc.sessions.Touch(ctx, in.UploadID, uc.now()); err != nil {
		uc.logger.Warn("[UPLOAD] Failed to touch session %s: %v", in.UploadID, err)
	}

	received, err := uc.chunks.ListChunks(in.UploadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}

	return &ChunkResult{
		UploadID:    in.UploadID,
		ChunkIndex:  in.Index,
		TotalChunks: in.Total,
		Received:    len(received),
	}, nil
}

func (uc *uploadUseCase) openSession(ctx context.Context, caller *guard.Identity, kind models.MediaKind, in ChunkInput) (*entity.UploadSession, error) {
	session, err := uc.sessions.GetByID(ctx, in.UploadID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, persistent.ErrNotFound) {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	original := ""
	if in.Filename != "" {
		original = filepath.Base(in.Filename)
	}
	now := uc.now()
	session = &entity.UploadSession{
		ID:               in.UploadID,
		Kind:             kind,
		OwnerID:          caller.UserID,
		OwnerRole:        caller.Role,
		OriginalFilename: original,
		TotalChunks:      in.Total,
		State:            entity.StateCollecting,
		LastActivity:     now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	created, err := uc.sessions.Create(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if created {
		uc.logger.Info("[UPLOAD] Session %s opened by %s (%s, %d chunks)", session.ID, caller.UserID, kind, in.Total)
		return session, nil
	}

	// lost the insert race to a concurrent first chunk
	session, err = uc.sessions.GetByID(ctx, in.UploadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

func (uc *uploadUseCase) loadForCaller(ctx context.Context, caller *guard.Identity, uploadID string) (*entity.UploadSession, error) {
	if err := validateUploadID(uploadID); err != nil {
		return nil, err
	}
	session, err := uc.sessions.GetByID(ctx, uploadID)
	if errors.Is(err, persistent.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !session.OwnedBy(caller.UserID) && !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	return session, nil
}

func (uc *uploadUseCase) Finalize(ctx context.Context, caller *guard.Identity, kind models.MediaKind, in FinalizeInput) (*FinalizeResult, error) {
	session, err := uc.loadForCaller(ctx, caller, in.UploadID)
	if err != nil {
		return nil, err
	}
	if session.Kind != kind {
		return nil, fmt.Errorf("%w: upload %s is a %s upload", ErrConflict, session.ID, session.Kind)
	}

	// The assembly must not be abandoned half way because one client went away.
	detached := context.WithoutCancel(ctx)
	v, err, shared := uc.finalizing.Do(in.UploadID, func() (interface{}, error) {
		return uc.finalize(detached, caller, session, in)
	})
	if shared {
		uc.logger.Debug("[UPLOAD] Finalize of %s shared with a concurrent call", in.UploadID)
	}
	if err != nil {
		return nil, err
	}
	return v.(*FinalizeResult), nil
}

func (uc *uploadUseCase) finalize(ctx context.Context, caller *guard.Identity, session *entity.UploadSession, in FinalizeInput) (*FinalizeResult, error) {
	if session.State == entity.StateCommitted {
		return uc.committedResult(ctx, session, in)
	}

	total := session.TotalChunks
	if in.TotalChunks > 0 && in.TotalChunks != total {
		return nil, fmt.Errorf("%w: totalChunks %d does not match session (%d)", ErrValidation, in.TotalChunks, total)
	}
	filename := in.Filename
	if filename == "" {
		filename = session.OriginalFilename
	}
	ext, err := FinalExtension(session.Kind, filename)
	if err != nil {
		return nil, err
	}

	ok, err := uc.sessions.Transition(ctx, session.ID,
		[]entity.SessionState{entity.StateCollecting}, entity.StateFinalizing,
		persistent.SessionUpdate{At: uc.now()})
	if err != nil {
		return nil, fmt.Errorf("failed to lock session: %w", err)
	}
	if !ok {
		current, err := uc.sessions.GetByID(ctx, session.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload session: %w", err)
		}
		if current.State == entity.StateCommitted {
			return uc.committedResult(ctx, current, in)
		}
		return nil, fmt.Errorf("%w: upload %s is %s", ErrConflict, current.ID, current.State)
	}

	destDir, err := uc.media.Dir(session.Kind)
	if err != nil {
		uc.fail(ctx, session.ID, err)
		return nil, err
	}
	finalName := generateFilename(uc.now(), ext)

	size, err := uc.chunks.Assemble(session.ID, total, destDir, finalName)
	if err != nil {
		var missing *storage.MissingChunkError
		if errors.As(err, &missing) {
			uc.logger.Warn("[UPLOAD] Finalize of %s aborted: %v", session.ID, err)
			if _, terr := uc.sessions.Transition(ctx, session.ID,
				[]entity.SessionState{entity.StateFinalizing}, entity.StateCollecting,
				persistent.SessionUpdate{At: uc.now()}); terr != nil {
				uc.logger.Error("[UPLOAD] Failed to reopen session %s: %v", session.ID, terr)
			}
			return nil, err
		}
		uc.fail(ctx, session.ID, err)
		return nil, fmt.Errorf("failed to assemble upload: %w", err)
	}

	if err := uc.chunks.Cleanup(session.ID); err != nil {
		uc.logger.Warn("[UPLOAD] Failed to clean chunks of %s: %v", session.ID, err)
	}

	committedAt := uc.now()
	ok, err = uc.sessions.Transition(ctx, session.ID,
		[]entity.SessionState{entity.StateFinalizing}, entity.StateCommitted,
		persistent.SessionUpdate{At: committedAt, FinalFilename: finalName, Size: size})
	if err != nil || !ok {
		if err == nil {
			err = fmt.Errorf("%w: session %s left finalizing", ErrConflict, session.ID)
		}
		return nil, fmt.Errorf("failed to commit session: %w", err)
	}

	session.State = entity.StateCommitted
	session.FinalFilename = finalName
	session.Size = size
	uc.logger.Info("[UPLOAD] Committed %s as %s (%d bytes)", session.ID, finalName, size)

	result, err := uc.committedResult(ctx, session, in)
	if err != nil {
		return nil, err
	}

	if uc.publisher != nil {
		event := queue.MediaCommitted{
			UploadID:  session.ID,
			Kind:      string(session.Kind),
			Filename:  finalName,
			Size:      size,
			OwnerID:   caller.UserID,
			Committed: committedAt,
		}
		if err := uc.publisher.PublishMediaCommitted(ctx, event); err != nil {
			uc.logger.Error("[UPLOAD] Failed to publish commit of %s: %v", session.ID, err)
		}
	}

	return result, nil
}

// committedResult rebuilds the response for a committed session and creates
// the video record if an earlier finalize committed the file without it.
func (uc *uploadUseCase) committedResult(ctx context.Context, session *entity.UploadSession, in FinalizeInput) (*FinalizeResult, error) {
	result := &FinalizeResult{
		UploadID: session.ID,
		Filename: session.FinalFilename,
		URL:      MediaURL(session.Kind, session.FinalFilename),
		Size:     session.Size,
	}
	if session.Kind != models.MediaVideo {
		return result, nil
	}

	video, err := uc.videos.GetByUploadID(ctx, session.ID)
	if err == nil {
		result.Video = video
		return result, nil
	}
	if !errors.Is(err, persistent.ErrNotFound) {
		return nil, fmt.Errorf("failed to load video: %w", err)
	}

	title := in.Title
	if title == "" {
		title = strings.TrimSuffix(session.OriginalFilename, filepath.Ext(session.OriginalFilename))
	}
	video = &entity.Video{
		Title:        title,
		Description:  in.Description,
		Alt:          in.Alt,
		Src:          result.URL,
		Filename:     session.FinalFilename,
		Size:         session.Size,
		UploadID:     session.ID,
		UploaderID:   session.OwnerID,
		UploaderRole: string(session.OwnerRole),
	}
	if err := uc.videos.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to save video: %w", err)
	}
	result.Video = video
	return result, nil
}

func (uc *uploadUseCase) fail(ctx context.Context, uploadID string, cause error) {
	uc.logger.Error("[UPLOAD] Finalize of %s failed: %v", uploadID, cause)
	if _, err := uc.sessions.Transition(ctx, uploadID,
		[]entity.SessionState{entity.StateFinalizing}, entity.StateFailed,
		persistent.SessionUpdate{At: uc.now(), FailureReason: cause.Error()}); err != nil {
		uc.logger.Error("[UPLOAD] Failed to mark %s failed: %v", uploadID, err)
	}
}

func (uc *uploadUseCase) Cancel(ctx context.Context, caller *guard.Identity, uploadID string) error {
	session, err := uc.loadForCaller(ctx, caller, uploadID)
	if err != nil {
		return err
	}

	ok, err := uc.sessions.Transition(ctx, session.ID,
		[]entity.SessionState{entity.StateCollecting, entity.StateFailed}, entity.StateExpired,
		persistent.SessionUpdate{At: uc.now(), FailureReason: "cancelled"})
	if err != nil {
		return fmt.Errorf("failed to cancel session: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: upload %s is %s", ErrConflict, session.ID, session.State)
	}

	if err := uc.chunks.Cleanup(session.ID); err != nil {
		return fmt.Errorf("failed to remove chunks: %w", err)
	}
	uc.logger.Info("[UPLOAD] Session %s cancelled by %s", session.ID, caller.UserID)
	return nil
}

func (uc *uploadUseCase) Status(ctx context.Context, caller *guard.Identity, uploadID string) (*UploadStatus, error) {
	session, err := uc.loadForCaller(ctx, caller, uploadID)
	if err != nil {
		return nil, err
	}

	received := []int{}
	if session.State == entity.StateCollecting || session.State == entity.StateFailed {
		if received, err = uc.chunks.ListChunks(session.ID); err != nil {
			return nil, fmt.Errorf("failed to list chunks: %w", err)
		}
	}
	return &UploadStatus{Session: session, Received: received}, nil
}

// SweepExpired expires sessions idle for longer than the session TTL and removes
// stale chunk directories that no live session owns.
func (uc *uploadUseCase) SweepExpired(ctx context.Context, now time.Time) (*SweepReport, error) {
	cutoff := now.Add(-uc.sessionTTL)
	report := &SweepReport{}

	idle, err := uc.sessions.ListIdle(ctx,
		[]entity.SessionState{entity.StateCollecting, entity.StateFailed, entity.StateFinalizing},
		cutoff, sweepBatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list idle sessions: %w", err)
	}

	for _, s := range idle {
		ok, err := uc.sessions.Transition(ctx, s.ID,
			[]entity.SessionState{s.State}, entity.StateExpired,
			persistent.SessionUpdate{At: now, FailureReason: "expired"})
		if err != nil {
			uc.logger.Error("[SWEEPER] Failed to expire %s: %v", s.ID, err)
			continue
		}
		if !ok {
			continue
		}
		if err := uc.chunks.Cleanup(s.ID); err != nil {
			uc.logger.Error("[SWEEPER] Failed to remove chunks of %s: %v", s.ID, err)
			continue
		}
		report.Expired++
	}

	stale, err := uc.chunks.StaleDirs(cutoff)
	if err != nil {
		return report, fmt.Errorf("failed to scan chunk dirs: %w", err)
	}
	for _, uploadID := range stale {
		session, err := uc.sessions.GetByID(ctx, uploadID)
		switch {
		case errors.Is(err, persistent.ErrNotFound):
		case err != nil:
			uc.logger.Error("[SWEEPER] Failed to look up %s: %v", uploadID, err)
			continue
		case session.State != entity.StateCommitted && session.State != entity.StateExpired:
			continue
		}
		if err := uc.chunks.Cleanup(uploadID); err != nil {
			uc.logger.Error("[SWEEPER] Failed to remove orphan %s: %v", uploadID, err)
			continue
		}
		report.Orphans++
	}

	if report.Expired > 0 || report.Orphans > 0 {
		uc.logger.Info("[SWEEPER] Expired %d sessions, removed %d orphan dirs", report.Expired, report.Orphans)
	}
	return report, nil
}
