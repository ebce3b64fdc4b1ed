package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"estate-market/pkg/guard"
	"estate-market/pkg/jwt"
	"estate-market/pkg/logger"
	"estate-market/pkg/models"
	"estate-market/services/media/internal/entity"
	"estate-market/services/media/internal/storage"
	"estate-market/services/media/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUploadUseCase is a mock implementation of UploadUseCase
type MockUploadUseCase struct {
	mock.Mock
}

func (m *MockUploadUseCase) UploadChunk(ctx context.Context, caller *guard.Identity, kind models.MediaKind, in usecase.ChunkInput) (*usecase.ChunkResult, error) {
	body, _ := io.ReadAll(in.Body)
	in.Body = nil
	args := m.Called(caller.UserID, kind, in, string(body))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ChunkResult), args.Error(1)
}

func (m *MockUploadUseCase) Finalize(ctx context.Context, caller *guard.Identity, kind models.MediaKind, in usecase.FinalizeInput) (*usecase.FinalizeResult, error) {
	args := m.Called(caller.UserID, kind, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.FinalizeResult), args.Error(1)
}

func (m *MockUploadUseCase) Cancel(ctx context.Context, caller *guard.Identity, uploadID string) error {
	return m.Called(caller.UserID, uploadID).Error(0)
}

func (m *MockUploadUseCase) Status(ctx context.Context, caller *guard.Identity, uploadID string) (*usecase.UploadStatus, error) {
	args := m.Called(caller.UserID, uploadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.UploadStatus), args.Error(1)
}

func (m *MockUploadUseCase) SweepExpired(ctx context.Context, now time.Time) (*usecase.SweepReport, error) {
	args := m.Called(now)
	return args.Get(0).(*usecase.SweepReport), args.Error(1)
}

var _ usecase.UploadUseCase = (*MockUploadUseCase)(nil)

type MockVideoUseCase struct {
	mock.Mock
}

func (m *MockVideoUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Video, int64, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Video), args.Get(1).(int64), args.Error(2)
}

func (m *MockVideoUseCase) Get(ctx context.Context, id string) (*entity.Video, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Video), args.Error(1)
}

func (m *MockVideoUseCase) Update(ctx context.Context, id string, upd usecase.VideoUpdate) (*entity.Video, error) {
	args := m.Called(id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Video), args.Error(1)
}

func (m *MockVideoUseCase) Delete(ctx context.Context, id string) error {
	return m.Called(id).Error(0)
}

var _ usecase.VideoUseCase = (*MockVideoUseCase)(nil)

const testSecret = "test-secret"

type testServer struct {
	router    *gin.Engine
	uploads   *MockUploadUseCase
	videos    *MockVideoUseCase
	tokens    *jwt.Service
	mediaRoot string
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mediaRoot := t.TempDir()
	media, err := storage.NewMediaStore(mediaRoot)
	require.NoError(t, err)

	s := &testServer{
		router:    gin.New(),
		uploads:   new(MockUploadUseCase),
		videos:    new(MockVideoUseCase),
		tokens:    jwt.NewService(testSecret),
		mediaRoot: mediaRoot,
	}
	log := logger.NewNop()
	RegisterRoutes(s.router, guard.New(s.tokens), Handlers{
		Uploads: NewUploadHandler(s.uploads, 1<<20, log),
		Media:   NewMediaHandler(media, log),
		Videos:  NewVideoHandler(s.videos, log),
	}, nil)
	return s
}

func (s *testServer) token(t *testing.T, userID string, role models.UserRole) string {
	t.Helper()
	token, err := s.tokens.GenerateToken(userID, string(role))
	require.NoError(t, err)
	return token
}

func (s *testServer) do(req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func chunkRequest(t *testing.T, path, token string, fields map[string]string, chunk []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	part, err := writer.CreateFormFile("chunk", "blob")
	require.NoError(t, err)
	_, err = part.Write(chunk)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("token", token)
	}
	return req
}

func videoChunkFields(index int) map[string]string {
	return map[string]string{
		"uploadId":    "up-1",
		"chunkIndex":  strconv.Itoa(index),
		"totalChunks": "3",
		"filename":    "tour.mp4",
	}
}

func TestUploadVideoChunk_RoleGate(t *testing.T) {
	s := setupTestServer(t)

	w, body := s.do(chunkRequest(t, "/api/v1/media/videos/chunks", "", videoChunkFields(0), []byte("abc")))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, body["success"])

	w, _ = s.do(chunkRequest(t, "/api/v1/media/videos/chunks", "garbage", videoChunkFields(0), []byte("abc")))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(chunkRequest(t, "/api/v1/media/videos/chunks", s.token(t, "u-1", models.RoleUser), videoChunkFields(0), []byte("abc")))
	assert.Equal(t, http.StatusForbidden, w.Code)

	s.uploads.AssertNotCalled(t, "UploadChunk", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	for _, role := range []models.UserRole{models.RoleAdmin, models.RoleSuperAdmin} {
		userID := "staff-" + string(role)
		s.uploads.On("UploadChunk", userID, models.MediaVideo, usecase.ChunkInput{
			UploadID: "up-1", Index: 2, Total: 3, Filename: "tour.mp4",
		}, "abc").Return(&usecase.ChunkResult{UploadID: "up-1", ChunkIndex: 2, TotalChunks: 3, Received: 1}, nil).Once()

		w, body = s.do(chunkRequest(t, "/api/v1/media/videos/chunks", s.token(t, userID, role), videoChunkFields(2), []byte("abc")))
		assert.Equal(t, http.StatusOK, w.Code, role)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, float64(2), body["chunkIndex"])
		assert.Equal(t, float64(1), body["received"])
	}
	s.uploads.AssertExpectations(t)
}

func TestUploadImageChunk_AnyAuthenticatedRole(t *testing.T) {
	s := setupTestServer(t)

	s.uploads.On("UploadChunk", "u-1", models.MediaImage, usecase.ChunkInput{
		UploadID: "img-1", Index: 0, Total: 1,
	}, "png").Return(&usecase.ChunkResult{UploadID: "img-1", TotalChunks: 1, Received: 1}, nil).Once()

	req := chunkRequest(t, "/api/v1/media/images/chunks", "", map[string]string{
		"uploadId": "img-1", "chunkIndex": "0", "totalChunks": "1",
	}, []byte("png"))
	req.Header.Set("Authorization", "Bearer "+s.token(t, "u-1", models.RoleUser))

	w, _ := s.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	s.uploads.AssertExpectations(t)
}

func TestUploadChunk_BadForm(t *testing.T) {
	s := setupTestServer(t)
	token := s.token(t, "a-1", models.RoleAdmin)

	fields := videoChunkFields(0)
	fields["chunkIndex"] = "first"
	w, _ := s.do(chunkRequest(t, "/api/v1/media/videos/chunks", token, fields, []byte("x")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(chunkRequest(t, "/api/v1/media/videos/chunks", token, videoChunkFields(0), bytes.Repeat([]byte("x"), (1<<20)+1)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	// past the body cap the form itself fails to parse
	w, body := s.do(chunkRequest(t, "/api/v1/media/videos/chunks", token, videoChunkFields(0), bytes.Repeat([]byte("x"), 3<<20)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, msgChunkTooLarge, body["message"])

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/media/videos/chunks", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("token", token)
	w, _ = s.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.uploads.AssertNotCalled(t, "UploadChunk", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadChunk_ValidationErrorIs400(t *testing.T) {
	s := setupTestServer(t)
	s.uploads.On("UploadChunk", "a-1", models.MediaVideo, mock.Anything, "x").
		Return(nil, usecase.ErrValidation).Once()

	fields := videoChunkFields(0)
	fields["uploadId"] = "../../etc"
	w, body := s.do(chunkRequest(t, "/api/v1/media/videos/chunks", s.token(t, "a-1", models.RoleAdmin), fields, []byte("x")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, body, "error")
}

func finalizeRequest(t *testing.T, path, token string, payload interface{}) *http.Request {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("token", token)
	return req
}

func TestFinalizeVideo_Success(t *testing.T) {
	s := setupTestServer(t)
	video := &entity.Video{ID: "vid-1", Title: "Villa", Filename: "1-aaaaaaaa.mp4"}
	s.uploads.On("Finalize", "a-1", models.MediaVideo, usecase.FinalizeInput{
		UploadID: "up-1", Filename: "tour.mp4", Title: "Villa", Alt: "villa",
	}).Return(&usecase.FinalizeResult{
		UploadID: "up-1", Filename: "1-aaaaaaaa.mp4", URL: "/media/videos/1-aaaaaaaa.mp4", Size: 2516582, Video: video,
	}, nil).Once()

	w, body := s.do(finalizeRequest(t, "/api/v1/media/videos/finalize", s.token(t, "a-1", models.RoleAdmin), map[string]interface{}{
		"uploadId":         "up-1",
		"originalFilename": "tour.mp4",
		"title":            "Villa",
		"alt":              "villa",
	}))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "/media/videos/1-aaaaaaaa.mp4", body["url"])
	assert.Equal(t, float64(2516582), body["size"])
	assert.Equal(t, "vid-1", body["video"].(map[string]interface{})["id"])
	s.uploads.AssertExpectations(t)
}

func TestFinalize_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"missing chunk", &usecase.MissingChunkError{Index: 1}, http.StatusBadRequest},
		{"not found", usecase.ErrNotFound, http.StatusNotFound},
		{"forbidden", usecase.ErrForbidden, http.StatusForbidden},
		{"conflict", usecase.ErrConflict, http.StatusConflict},
		{"io", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := setupTestServer(t)
			s.uploads.On("Finalize", "u-1", models.MediaImage, mock.Anything).Return(nil, tc.err).Once()

			w, body := s.do(finalizeRequest(t, "/api/v1/media/images/finalize", s.token(t, "u-1", models.RoleUser), map[string]interface{}{
				"uploadId": "img-1",
			}))
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, false, body["success"])
			if tc.name == "missing chunk" {
				assert.Equal(t, float64(1), body["missingChunk"])
			}
		})
	}
}

func TestFinalize_RequiresUploadID(t *testing.T) {
	s := setupTestServer(t)
	w, _ := s.do(finalizeRequest(t, "/api/v1/media/images/finalize", s.token(t, "u-1", models.RoleUser), map[string]interface{}{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	s.uploads.AssertNotCalled(t, "Finalize", mock.Anything, mock.Anything, mock.Anything)
}

func TestStatusAndCancel(t *testing.T) {
	s := setupTestServer(t)
	token := s.token(t, "u-1", models.RoleUser)

	s.uploads.On("Status", "u-1", "img-1").Return(&usecase.UploadStatus{
		Session:  &entity.UploadSession{ID: "img-1", Kind: models.MediaImage, State: entity.StateCollecting, TotalChunks: 3},
		Received: []int{0, 2},
	}, nil).Once()
	s.uploads.On("Cancel", "u-1", "img-1").Return(nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/media/uploads/img-1", nil)
	req.Header.Set("token", token)
	w, body := s.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "collecting", body["state"])
	assert.Equal(t, []interface{}{float64(0), float64(2)}, body["received"])

	req, _ = http.NewRequest(http.MethodDelete, "/api/v1/media/uploads/img-1", nil)
	req.Header.Set("token", token)
	w, _ = s.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	s.uploads.AssertExpectations(t)
}

func TestServeMedia(t *testing.T) {
	s := setupTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.mediaRoot, "images", "1-abcdef12.png"), []byte("png-bytes"), 0o644))

	req, _ := http.NewRequest(http.MethodGet, "/media/images/1-abcdef12.png", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, max-age=31536000, immutable", w.Header().Get("Cache-Control"))
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", w.Body.String())

	require.NoError(t, os.WriteFile(filepath.Join(s.mediaRoot, "videos", ".1-abcdef12.mp4.part"), []byte("half"), 0o644))

	for path, status := range map[string]int{
		"/media/videos/.1-abcdef12.mp4.part": http.StatusNotFound,
		"/media/images/missing.png":          http.StatusNotFound,
		"/media/audio/1-abcdef12.png":        http.StatusNotFound,
		"/media/images/..%5Csecret":          http.StatusBadRequest,
		"/media/images/a..b":                 http.StatusBadRequest,
	} {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		assert.Equal(t, status, w.Code, path)
		assert.Empty(t, w.Header().Get("Cache-Control"), path)
	}
}

func TestVideoRoutes(t *testing.T) {
	s := setupTestServer(t)

	s.videos.On("List", 20, 0).Return([]*entity.Video{{ID: "vid-1"}}, int64(1), nil).Once()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/videos", nil)
	w, body := s.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["total"])

	s.videos.On("Get", "nope").Return(nil, usecase.ErrNotFound).Once()
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/videos/nope", nil)
	w, _ = s.do(req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req, _ = http.NewRequest(http.MethodDelete, "/api/v1/videos/vid-1", nil)
	req.Header.Set("token", s.token(t, "u-1", models.RoleUser))
	w, _ = s.do(req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	s.videos.On("Delete", "vid-1").Return(nil).Once()
	req, _ = http.NewRequest(http.MethodDelete, "/api/v1/videos/vid-1", nil)
	req.Header.Set("token", s.token(t, "a-1", models.RoleSuperAdmin))
	w, _ = s.do(req)
	assert.Equal(t, http.StatusOK, w.Code)

	s.videos.AssertExpectations(t)
}
