package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"estate-market/pkg/guard"
	"estate-market/pkg/jwt"
	"estate-market/pkg/logger"
	"estate-market/pkg/models"
	"estate-market/services/marketplace/internal/entity"
	"estate-market/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// callerID flattens an identity for mock matching; anonymous callers become "".
func callerID(caller *guard.Identity) string {
	if caller == nil {
		return ""
	}
	return caller.UserID
}

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Register(ctx context.Context, name, phone, password string) (*entity.User, string, error) {
	args := m.Called(name, phone, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

func (m *MockAuthUseCase) Login(ctx context.Context, phone, password string) (*entity.User, string, error) {
	args := m.Called(phone, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

func (m *MockAuthUseCase) CreateUser(ctx context.Context, name, phone, password string, role models.UserRole) (*entity.User, error) {
	args := m.Called(name, phone, password, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthUseCase) GetUser(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthUseCase) ListUsers(ctx context.Context, limit, offset int) ([]*entity.User, int64, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockAuthUseCase) ChangeRole(ctx context.Context, actor *guard.Identity, id string, role models.UserRole) (*entity.User, error) {
	args := m.Called(callerID(actor), id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthUseCase) DeleteUser(ctx context.Context, actor *guard.Identity, id string) error {
	return m.Called(callerID(actor), id).Error(0)
}

var _ usecase.AuthUseCase = (*MockAuthUseCase)(nil)

type MockPosterUseCase struct {
	mock.Mock
}

func (m *MockPosterUseCase) List(ctx context.Context, caller *guard.Identity, filter entity.PosterFilter) ([]*entity.Poster, int64, error) {
	args := m.Called(callerID(caller), filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Poster), args.Get(1).(int64), args.Error(2)
}

func (m *MockPosterUseCase) Mine(ctx context.Context, caller *guard.Identity, limit, offset int) ([]*entity.Poster, int64, error) {
	args := m.Called(callerID(caller), limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Poster), args.Get(1).(int64), args.Error(2)
}

func (m *MockPosterUseCase) Get(ctx context.Context, caller *guard.Identity, id, viewer string) (*entity.Poster, error) {
	args := m.Called(callerID(caller), id, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Poster), args.Error(1)
}

func (m *MockPosterUseCase) Create(ctx context.Context, caller *guard.Identity, in usecase.PosterInput) (*entity.Poster, error) {
	args := m.Called(callerID(caller), in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Poster), args.Error(1)
}

func (m *MockPosterUseCase) Update(ctx context.Context, caller *guard.Identity, id string, in usecase.PosterInput) (*entity.Poster, error) {
	args := m.Called(callerID(caller), id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Poster), args.Error(1)
}

func (m *MockPosterUseCase) SetStatus(ctx context.Context, id string, status entity.PosterStatus) (*entity.Poster, error) {
	args := m.Called(id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Poster), args.Error(1)
}

func (m *MockPosterUseCase) Delete(ctx context.Context, caller *guard.Identity, id string) error {
	return m.Called(callerID(caller), id).Error(0)
}

var _ usecase.PosterUseCase = (*MockPosterUseCase)(nil)

type MockCategoryUseCase struct {
	mock.Mock
}

func (m *MockCategoryUseCase) List(ctx context.Context, parentID *string) ([]*entity.Category, error) {
	args := m.Called(parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Category), args.Error(1)
}

func (m *MockCategoryUseCase) Tree(ctx context.Context) ([]*entity.CategoryNode, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.CategoryNode), args.Error(1)
}

func (m *MockCategoryUseCase) Get(ctx context.Context, id string) (*entity.Category, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryUseCase) Create(ctx context.Context, in usecase.CategoryInput) (*entity.Category, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryUseCase) Update(ctx context.Context, id string, in usecase.CategoryInput) (*entity.Category, error) {
	args := m.Called(id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryUseCase) Delete(ctx context.Context, id string) error {
	return m.Called(id).Error(0)
}

var _ usecase.CategoryUseCase = (*MockCategoryUseCase)(nil)

type MockConsultantUseCase struct {
	mock.Mock
}

func (m *MockConsultantUseCase) List(ctx context.Context, includeInactive bool) ([]*entity.Consultant, error) {
	args := m.Called(includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Consultant), args.Error(1)
}

func (m *MockConsultantUseCase) Get(ctx context.Context, id string) (*entity.Consultant, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Consultant), args.Error(1)
}

func (m *MockConsultantUseCase) Create(ctx context.Context, in usecase.ConsultantInput) (*entity.Consultant, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Consultant), args.Error(1)
}

func (m *MockConsultantUseCase) Update(ctx context.Context, id string, in usecase.ConsultantInput) (*entity.Consultant, error) {
	args := m.Called(id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Consultant), args.Error(1)
}

func (m *MockConsultantUseCase) Delete(ctx context.Context, id string) error {
	return m.Called(id).Error(0)
}

func (m *MockConsultantUseCase) TopConsultants(ctx context.Context) ([]*entity.TopConsultant, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.TopConsultant), args.Error(1)
}

func (m *MockConsultantUseCase) SetTop(ctx context.Context, rank int, consultantID string, isActive bool) (*entity.TopConsultant, error) {
	args := m.Called(rank, consultantID, isActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TopConsultant), args.Error(1)
}

func (m *MockConsultantUseCase) RemoveTop(ctx context.Context, rank int) error {
	return m.Called(rank).Error(0)
}

var _ usecase.ConsultantUseCase = (*MockConsultantUseCase)(nil)

type MockFavoriteUseCase struct {
	mock.Mock
}

func (m *MockFavoriteUseCase) List(ctx context.Context, caller *guard.Identity) ([]*entity.Poster, error) {
	args := m.Called(callerID(caller))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Poster), args.Error(1)
}

func (m *MockFavoriteUseCase) Add(ctx context.Context, caller *guard.Identity, posterID string) error {
	return m.Called(callerID(caller), posterID).Error(0)
}

func (m *MockFavoriteUseCase) Remove(ctx context.Context, caller *guard.Identity, posterID string) error {
	return m.Called(callerID(caller), posterID).Error(0)
}

var _ usecase.FavoriteUseCase = (*MockFavoriteUseCase)(nil)

type MockChatUseCase struct {
	mock.Mock
}

func (m *MockChatUseCase) Open(ctx context.Context, caller *guard.Identity, participantID string) (*entity.ChatRoom, error) {
	args := m.Called(callerID(caller), participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ChatRoom), args.Error(1)
}

func (m *MockChatUseCase) List(ctx context.Context, caller *guard.Identity) ([]*entity.ChatRoom, error) {
	args := m.Called(callerID(caller))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ChatRoom), args.Error(1)
}

func (m *MockChatUseCase) Get(ctx context.Context, caller *guard.Identity, id string) (*entity.ChatRoom, error) {
	args := m.Called(callerID(caller), id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ChatRoom), args.Error(1)
}

func (m *MockChatUseCase) Send(ctx context.Context, caller *guard.Identity, id, text string) (*entity.Message, error) {
	args := m.Called(callerID(caller), id, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Message), args.Error(1)
}

var _ usecase.ChatUseCase = (*MockChatUseCase)(nil)

type MockDashboardUseCase struct {
	mock.Mock
}

func (m *MockDashboardUseCase) Counters(ctx context.Context) (*entity.Counters, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Counters), args.Error(1)
}

var _ usecase.DashboardUseCase = (*MockDashboardUseCase)(nil)

const testSecret = "test-secret"

type testServer struct {
	router      *gin.Engine
	tokens      *jwt.Service
	auth        *MockAuthUseCase
	posters     *MockPosterUseCase
	categories  *MockCategoryUseCase
	consultants *MockConsultantUseCase
	favorites   *MockFavoriteUseCase
	chats       *MockChatUseCase
	dashboard   *MockDashboardUseCase
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &testServer{
		router:      gin.New(),
		tokens:      jwt.NewService(testSecret),
		auth:        new(MockAuthUseCase),
		posters:     new(MockPosterUseCase),
		categories:  new(MockCategoryUseCase),
		consultants: new(MockConsultantUseCase),
		favorites:   new(MockFavoriteUseCase),
		chats:       new(MockChatUseCase),
		dashboard:   new(MockDashboardUseCase),
	}
	log := logger.NewNop()
	RegisterRoutes(s.router, guard.New(s.tokens), Handlers{
		Auth:        NewAuthHandler(s.auth, log),
		Posters:     NewPosterHandler(s.posters, log),
		Categories:  NewCategoryHandler(s.categories, log),
		Consultants: NewConsultantHandler(s.consultants, log),
		Favorites:   NewFavoriteHandler(s.favorites, log),
		Chats:       NewChatHandler(s.chats, log),
		Dashboard:   NewDashboardHandler(s.dashboard, log),
	}, nil)
	return s
}

func (s *testServer) token(t *testing.T, userID string, role models.UserRole) string {
	t.Helper()
	token, err := s.tokens.GenerateToken(userID, string(role))
	require.NoError(t, err)
	return token
}

// request builds a JSON request; payload may be nil and token may be empty.
func (s *testServer) request(t *testing.T, method, path, token string, payload interface{}) *http.Request {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req, err := http.NewRequest(method, path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("token", token)
	}
	return req
}

func (s *testServer) do(req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}
