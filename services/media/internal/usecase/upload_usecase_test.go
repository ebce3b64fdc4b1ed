package usecase

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"estate-market/pkg/guard"
	"estate-market/pkg/logger"
	"estate-market/pkg/models"
	"estate-market/pkg/queue"
	"estate-market/services/media/internal/entity"
	"estate-market/services/media/internal/repo/persistent"
	"estate-market/services/media/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memSessions is an in-memory SessionRepository with the same conditional
// update semantics as the gorm implementation.
type memSessions struct {
	mu   sync.Mutex
	rows map[string]entity.UploadSession
}

func newMemSessions() *memSessions {
	return &memSessions{rows: make(map[string]entity.UploadSession)}
}

func (m *memSessions) Create(_ context.Context, s *entity.UploadSession) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[s.ID]; ok {
		return false, nil
	}
	m.rows[s.ID] = *s
	return true, nil
}

func (m *memSessions) GetByID(_ context.Context, id string) (*entity.UploadSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, persistent.ErrNotFound
	}
	return &row, nil
}

func (m *memSessions) Touch(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.rows[id]; ok && row.State == entity.StateCollecting {
		row.LastActivity = at
		m.rows[id] = row
	}
	return nil
}

func (m *memSessions) Transition(_ context.Context, id string, from []entity.SessionState, to entity.SessionState, upd persistent.SessionUpdate) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, s := range from {
		if row.State == s {
			allowed = true
		}
	}
	if !allowed {
		return false, nil
	}
	row.State = to
	row.FailureReason = upd.FailureReason
	row.LastActivity = upd.At
	if upd.FinalFilename != "" {
		row.FinalFilename = upd.FinalFilename
	}
	if upd.Size > 0 {
		row.Size = upd.Size
	}
	m.rows[id] = row
	return true, nil
}

func (m *memSessions) ListIdle(_ context.Context, states []entity.SessionState, before time.Time, limit int) ([]*entity.UploadSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.UploadSession
	for _, row := range m.rows {
		for _, s := range states {
			if row.State == s && row.LastActivity.Before(before) {
				r := row
				out = append(out, &r)
			}
		}
	}
	return out, nil
}

func (m *memSessions) state(id string) entity.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id].State
}

type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) EnsureIndexes(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockVideoRepository) Create(ctx context.Context, video *entity.Video) error {
	return m.Called(ctx, video).Error(0)
}

func (m *MockVideoRepository) GetByID(ctx context.Context, id string) (*entity.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Video), args.Error(1)
}

func (m *MockVideoRepository) GetByUploadID(ctx context.Context, uploadID string) (*entity.Video, error) {
	args := m.Called(ctx, uploadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Video), args.Error(1)
}

func (m *MockVideoRepository) List(ctx context.Context, limit, offset int) ([]*entity.Video, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Video), args.Get(1).(int64), args.Error(2)
}

func (m *MockVideoRepository) Update(ctx context.Context, video *entity.Video) error {
	return m.Called(ctx, video).Error(0)
}

func (m *MockVideoRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockVideoRepository) SetMirrorURL(ctx context.Context, filename, url string) error {
	return m.Called(ctx, filename, url).Error(0)
}

var _ persistent.VideoRepository = (*MockVideoRepository)(nil)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishMediaCommitted(ctx context.Context, event queue.MediaCommitted) error {
	return m.Called(ctx, event).Error(0)
}

type uploadFixture struct {
	uc        *uploadUseCase
	sessions  *memSessions
	videos    *MockVideoRepository
	publisher *MockPublisher
	chunks    *storage.ChunkStore
	mediaRoot string
}

func newUploadFixture(t *testing.T) *uploadFixture {
	t.Helper()
	chunks, err := storage.NewChunkStore(filepath.Join(t.TempDir(), "tmp"))
	require.NoError(t, err)
	mediaRoot := t.TempDir()
	media, err := storage.NewMediaStore(mediaRoot)
	require.NoError(t, err)

	f := &uploadFixture{
		sessions:  newMemSessions(),
		videos:    new(MockVideoRepository),
		publisher: new(MockPublisher),
		chunks:    chunks,
		mediaRoot: mediaRoot,
	}
	f.uc = NewUploadUseCase(f.sessions, f.videos, chunks, media, f.publisher, 24*time.Hour, logger.NewNop()).(*uploadUseCase)
	return f
}

var (
	adminCaller = &guard.Identity{UserID: "admin-1", Role: models.RoleAdmin}
	userCaller  = &guard.Identity{UserID: "user-1", Role: models.RoleUser}
	otherCaller = &guard.Identity{UserID: "user-2", Role: models.RoleUser}
)

func (f *uploadFixture) upload(t *testing.T, caller *guard.Identity, kind models.MediaKind, uploadID, filename string, parts [][]byte, order ...int) {
	t.Helper()
	if len(order) == 0 {
		for i := range parts {
			order = append(order, i)
		}
	}
	for _, idx := range order {
		_, err := f.uc.UploadChunk(context.Background(), caller, kind, ChunkInput{
			UploadID: uploadID,
			Index:    idx,
			Total:    len(parts),
			Filename: filename,
			Body:     bytes.NewReader(parts[idx]),
		})
		require.NoError(t, err)
	}
}

func (f *uploadFixture) committedFiles(t *testing.T, kind models.MediaKind) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(f.mediaRoot, kind.Dir()))
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestFinalize_VideoOutOfOrder(t *testing.T) {
	f := newUploadFixture(t)

	original := make([]byte, 2516582)
	rand.New(rand.NewSource(1)).Read(original)
	parts := [][]byte{original[:1048576], original[1048576:2097152], original[2097152:]}

	f.upload(t, adminCaller, models.MediaVideo, "tour-1", "Tour.MP4", parts, 2, 0, 1)

	f.videos.On("GetByUploadID", mock.Anything, "tour-1").Return(nil, persistent.ErrNotFound).Once()
	f.videos.On("Create", mock.Anything, mock.AnythingOfType("*entity.Video")).
		Run(func(args mock.Arguments) { args.Get(1).(*entity.Video).ID = "vid-1" }).
		Return(nil).Once()
	f.publisher.On("PublishMediaCommitted", mock.Anything, mock.MatchedBy(func(e queue.MediaCommitted) bool {
		return e.UploadID == "tour-1" && e.Kind == "video" && e.Size == 2516582
	})).Return(nil).Once()

	result, err := f.uc.Finalize(context.Background(), adminCaller, models.MediaVideo, FinalizeInput{
		UploadID: "tour-1",
		Title:    "Villa tour",
		Alt:      "villa",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2516582), result.Size)
	assert.Regexp(t, `^\d+-[0-9a-f]{8}\.mp4$`, result.Filename)
	assert.Equal(t, "/media/videos/"+result.Filename, result.URL)
	require.NotNil(t, result.Video)
	assert.Equal(t, "vid-1", result.Video.ID)
	assert.Equal(t, "Villa tour", result.Video.Title)
	assert.Equal(t, "admin", result.Video.UploaderRole)
	assert.Equal(t, result.URL, result.Video.Src)

	got, err := os.ReadFile(filepath.Join(f.mediaRoot, "videos", result.Filename))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(original, got))

	assert.Equal(t, entity.StateCommitted, f.sessions.state("tour-1"))
	assert.Equal(t, []string{result.Filename}, f.committedFiles(t, models.MediaVideo))

	indices, err := f.chunks.ListChunks("tour-1")
	require.NoError(t, err)
	assert.Empty(t, indices)

	f.videos.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestFinalize_MissingChunkReopensSession(t *testing.T) {
	f := newUploadFixture(t)

	for _, idx := range []int{0, 2} {
		_, err := f.uc.UploadChunk(context.Background(), userCaller, models.MediaImage, ChunkInput{
			UploadID: "img-1", Index: idx, Total: 3, Filename: "a.png", Body: bytes.NewReader([]byte("xx")),
		})
		require.NoError(t, err)
	}

	_, err := f.uc.Finalize(context.Background(), userCaller, models.MediaImage, FinalizeInput{UploadID: "img-1"})

	var missing *MissingChunkError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, 1, missing.Index)
	assert.Equal(t, entity.StateCollecting, f.sessions.state("img-1"))
	assert.Empty(t, f.committedFiles(t, models.MediaImage))

	// the gap can still be filled and the upload finalized
	_, err = f.uc.UploadChunk(context.Background(), userCaller, models.MediaImage, ChunkInput{
		UploadID: "img-1", Index: 1, Total: 3, Body: bytes.NewReader([]byte("yy")),
	})
	require.NoError(t, err)

	f.publisher.On("PublishMediaCommitted", mock.Anything, mock.Anything).Return(nil).Once()
	result, err := f.uc.Finalize(context.Background(), userCaller, models.MediaImage, FinalizeInput{UploadID: "img-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), result.Size)
	assert.Nil(t, result.Video)
}

func TestFinalize_IsIdempotentOnceCommitted(t *testing.T) {
	f := newUploadFixture(t)
	f.upload(t, userCaller, models.MediaImage, "img-2", "photo.jpg", [][]byte{[]byte("abc")})
	f.publisher.On("PublishMediaCommitted", mock.Anything, mock.Anything).Return(nil).Once()

	first, err := f.uc.Finalize(context.Background(), userCaller, models.MediaImage, FinalizeInput{UploadID: "img-2"})
	require.NoError(t, err)
	second, err := f.uc.Finalize(context.Background(), userCaller, models.MediaImage, FinalizeInput{UploadID: "img-2"})
	require.NoError(t, err)

	assert.Equal(t, first.Filename, second.Filename)
	assert.Len(t, f.committedFiles(t, models.MediaImage), 1)
	f.publisher.AssertNumberOfCalls(t, "PublishMediaCommitted", 1)
}

func TestFinalize_ConcurrentCallsCommitOnce(t *testing.T) {
	f := newUploadFixture(t)
	f.upload(t, userCaller, models.MediaImage, "img-3", "photo.webp", [][]byte{[]byte("one"), []byte("two")})
	f.publisher.On("PublishMediaCommitted", mock.Anything, mock.Anything).Return(nil).Once()

	const callers = 8
	var wg sync.WaitGroup
	names := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.uc.Finalize(context.Background(), userCaller, models.MediaImage, FinalizeInput{UploadID: "img-3"})
			errs[i] = err
			if err == nil {
				names[i] = res.Filename
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, names[0], names[i])
	}
	assert.Equal(t, []string{names[0]}, f.committedFiles(t, models.MediaImage))
	f.publisher.AssertNumberOfCalls(t, "PublishMediaCommitted", 1)
}

func TestFinalize_AccessRules(t *testing.T) {
	f := newUploadFixture(t)
	f.upload(t, userCaller, models.MediaImage, "img-4", "a.gif", [][]byte{[]byte("gif")})

	_, err := f.uc.Finalize(context.Background(), otherCaller, models.MediaImage, FinalizeInput{UploadID: "img-4"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.uc.Finalize(context.Background(), userCaller, models.MediaImage, FinalizeInput{UploadID: "nope"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.uc.Finalize(context.Background(), userCaller, models.MediaVideo, FinalizeInput{UploadID: "img-4"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.uc.Finalize(context.Background(), userCaller, models.MediaImage, FinalizeInput{UploadID: "img-4", TotalChunks: 5})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.uc.Finalize(context.Background(), userCaller, models.MediaImage, FinalizeInput{UploadID: "img-4", Filename: "evil.exe"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, entity.StateCollecting, f.sessions.state("img-4"))

	f.publisher.On("PublishMediaCommitted", mock.Anything, mock.Anything).Return(nil).Once()
	_, err = f.uc.Finalize(context.Background(), adminCaller, models.MediaImage, FinalizeInput{UploadID: "img-4"})
	assert.NoError(t, err)
}

func TestUploadChunk_Validation(t *testing.T) {
	f := newUploadFixture(t)
	ctx := context.Background()
	body := func() *bytes.Reader { return bytes.NewReader([]byte("x")) }

	cases := []struct {
		name string
		in   ChunkInput
	}{
		{"traversal id", ChunkInput{UploadID: "../etc", Index: 0, Total: 1, Body: body()}},
		{"slash id", ChunkInput{UploadID: "a/b", Index: 0, Total: 1, Body: body()}},
		{"backslash id", ChunkInput{UploadID: `a\b`, Index: 0, Total: 1, Body: body()}},
		{"negative index", ChunkInput{UploadID: "ok", Index: -1, Total: 1, Body: body()}},
		{"index past total", ChunkInput{UploadID: "ok", Index: 3, Total: 3, Body: body()}},
		{"zero total", ChunkInput{UploadID: "ok", Index: 0, Total: 0, Body: body()}},
		{"too many chunks", ChunkInput{UploadID: "ok", Index: 0, Total: storage.MaxChunks + 1, Body: body()}},
		{"bad extension", ChunkInput{UploadID: "ok", Index: 0, Total: 1, Filename: "clip.avi", Body: body()}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.UploadChunk(ctx, adminCaller, models.MediaVideo, tc.in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUploadChunk_OwnershipAndState(t *testing.T) {
	f := newUploadFixture(t)
	ctx := context.Background()

	res, err := f.uc.UploadChunk(ctx, userCaller, models.MediaImage, ChunkInput{
		UploadID: "own-1", Index: 1, Total: 2, Filename: "p.png", Body: bytes.NewReader([]byte("b")),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.ChunkIndex)
	assert.Equal(t, 2, res.TotalChunks)
	assert.Equal(t, 1, res.Received)

	_, err = f.uc.UploadChunk(ctx, otherCaller, models.MediaImage, ChunkInput{
		UploadID: "own-1", Index: 0, Total: 2, Body: bytes.NewReader([]byte("a")),
	})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.uc.UploadChunk(ctx, userCaller, models.MediaImage, ChunkInput{
		UploadID: "own-1", Index: 0, Total: 4, Body: bytes.NewReader([]byte("a")),
	})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, f.uc.Cancel(ctx, userCaller, "own-1"))
	_, err = f.uc.UploadChunk(ctx, userCaller, models.MediaImage, ChunkInput{
		UploadID: "own-1", Index: 0, Total: 2, Body: bytes.NewReader([]byte("a")),
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCancelAndStatus(t *testing.T) {
	f := newUploadFixture(t)
	ctx := context.Background()
	f.upload(t, userCaller, models.MediaImage, "st-1", "p.jpeg", [][]byte{[]byte("a"), []byte("b"), []byte("c")}, 2, 0)

	status, err := f.uc.Status(ctx, userCaller, "st-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StateCollecting, status.Session.State)
	assert.Equal(t, []int{0, 2}, status.Received)

	_, err = f.uc.Status(ctx, otherCaller, "st-1")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.uc.Status(ctx, adminCaller, "st-1")
	assert.NoError(t, err)

	assert.ErrorIs(t, f.uc.Cancel(ctx, otherCaller, "st-1"), ErrForbidden)
	require.NoError(t, f.uc.Cancel(ctx, userCaller, "st-1"))
	assert.Equal(t, entity.StateExpired, f.sessions.state("st-1"))

	indices, err := f.chunks.ListChunks("st-1")
	require.NoError(t, err)
	assert.Empty(t, indices)

	assert.ErrorIs(t, f.uc.Cancel(ctx, userCaller, "st-1"), ErrConflict)
}

func TestSweepExpired(t *testing.T) {
	f := newUploadFixture(t)
	ctx := context.Background()

	f.upload(t, userCaller, models.MediaImage, "idle-1", "p.png", [][]byte{[]byte("a"), []byte("b")}, 0)
	_, err := f.chunks.WriteChunk("orphan-1", 0, bytes.NewReader([]byte("z")))
	require.NoError(t, err)

	report, err := f.uc.SweepExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Expired)
	assert.Equal(t, 0, report.Orphans)

	report, err = f.uc.SweepExpired(ctx, time.Now().Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Expired)
	assert.Equal(t, 1, report.Orphans)
	assert.Equal(t, entity.StateExpired, f.sessions.state("idle-1"))

	for _, id := range []string{"idle-1", "orphan-1"} {
		indices, err := f.chunks.ListChunks(id)
		require.NoError(t, err)
		assert.Empty(t, indices, id)
	}
}

func TestFinalExtension(t *testing.T) {
	ext, err := FinalExtension(models.MediaVideo, "My Tour.MOV")
	require.NoError(t, err)
	assert.Equal(t, ".mov", ext)

	_, err = FinalExtension(models.MediaImage, "clip.mp4")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = FinalExtension(models.MediaImage, "noext")
	assert.ErrorIs(t, err, ErrValidation)
}
