package usecase

import (
	"context"

	"estate-market/pkg/models"
	"estate-market/services/marketplace/internal/entity"
	"estate-market/services/marketplace/internal/repo/cache"
	"estate-market/services/marketplace/internal/repo/persistent"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) EnsureIndexes(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == "" {
		user.ID = "generated-id"
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*entity.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*entity.User, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id string, role models.UserRole) error {
	return m.Called(ctx, id, role).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) AddFavorite(ctx context.Context, userID, posterID string) error {
	return m.Called(ctx, userID, posterID).Error(0)
}

func (m *MockUserRepository) RemoveFavorite(ctx context.Context, userID, posterID string) error {
	return m.Called(ctx, userID, posterID).Error(0)
}

type MockPosterRepository struct {
	mock.Mock
}

func (m *MockPosterRepository) EnsureIndexes(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockPosterRepository) Create(ctx context.Context, poster *entity.Poster) error {
	args := m.Called(ctx, poster)
	if args.Error(0) == nil && poster.ID == "" {
		poster.ID = "poster-new"
	}
	return args.Error(0)
}

func (m *MockPosterRepository) GetByID(ctx context.Context, id string) (*entity.Poster, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// hand out a copy so callers cannot mutate the fixture
	p := *args.Get(0).(*entity.Poster)
	return &p, args.Error(1)
}

func (m *MockPosterRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Poster, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Poster), args.Error(1)
}

func (m *MockPosterRepository) List(ctx context.Context, filter entity.PosterFilter) ([]*entity.Poster, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Poster), args.Get(1).(int64), args.Error(2)
}

func (m *MockPosterRepository) Update(ctx context.Context, poster *entity.Poster) error {
	return m.Called(ctx, poster).Error(0)
}

func (m *MockPosterRepository) UpdateStatus(ctx context.Context, id string, status entity.PosterStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockPosterRepository) IncrementViews(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPosterRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPosterRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Get(ctx context.Context, userID string) (*entity.Favorite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) Add(ctx context.Context, userID, posterID string) error {
	return m.Called(ctx, userID, posterID).Error(0)
}

func (m *MockFavoriteRepository) Remove(ctx context.Context, userID, posterID string) error {
	return m.Called(ctx, userID, posterID).Error(0)
}

func (m *MockFavoriteRepository) RemovePoster(ctx context.Context, posterID string) error {
	return m.Called(ctx, posterID).Error(0)
}

type MockConsultantRepository struct {
	mock.Mock
}

func (m *MockConsultantRepository) EnsureIndexes(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockConsultantRepository) Create(ctx context.Context, consultant *entity.Consultant) error {
	return m.Called(ctx, consultant).Error(0)
}

func (m *MockConsultantRepository) GetByID(ctx context.Context, id string) (*entity.Consultant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Consultant), args.Error(1)
}

func (m *MockConsultantRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Consultant, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Consultant), args.Error(1)
}

func (m *MockConsultantRepository) List(ctx context.Context, activeOnly bool) ([]*entity.Consultant, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Consultant), args.Error(1)
}

func (m *MockConsultantRepository) Update(ctx context.Context, consultant *entity.Consultant) error {
	return m.Called(ctx, consultant).Error(0)
}

func (m *MockConsultantRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockTopConsultantRepository struct {
	mock.Mock
}

func (m *MockTopConsultantRepository) EnsureIndexes(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockTopConsultantRepository) List(ctx context.Context) ([]*entity.TopConsultant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.TopConsultant), args.Error(1)
}

func (m *MockTopConsultantRepository) Set(ctx context.Context, top *entity.TopConsultant) error {
	return m.Called(ctx, top).Error(0)
}

func (m *MockTopConsultantRepository) Delete(ctx context.Context, rank int) error {
	return m.Called(ctx, rank).Error(0)
}

func (m *MockTopConsultantRepository) DeleteByConsultant(ctx context.Context, consultantID string) error {
	return m.Called(ctx, consultantID).Error(0)
}

type MockTopConsultantCache struct {
	mock.Mock
}

func (m *MockTopConsultantCache) Get(ctx context.Context) ([]*entity.TopConsultant, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]*entity.TopConsultant), args.Bool(1), args.Error(2)
}

func (m *MockTopConsultantCache) Set(ctx context.Context, tops []*entity.TopConsultant) error {
	return m.Called(ctx, tops).Error(0)
}

func (m *MockTopConsultantCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockViewTracker struct {
	mock.Mock
}

func (m *MockViewTracker) FirstView(ctx context.Context, posterID, viewer string) (bool, error) {
	args := m.Called(ctx, posterID, viewer)
	return args.Bool(0), args.Error(1)
}

type MockChatRoomRepository struct {
	mock.Mock
}

func (m *MockChatRoomRepository) EnsureIndexes(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockChatRoomRepository) FindOrCreate(ctx context.Context, userA, userB string) (*entity.ChatRoom, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ChatRoom), args.Error(1)
}

func (m *MockChatRoomRepository) GetByID(ctx context.Context, id string) (*entity.ChatRoom, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ChatRoom), args.Error(1)
}

func (m *MockChatRoomRepository) ListByParticipant(ctx context.Context, userID string) ([]*entity.ChatRoom, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ChatRoom), args.Error(1)
}

func (m *MockChatRoomRepository) AppendMessage(ctx context.Context, roomID string, msg *entity.Message) error {
	return m.Called(ctx, roomID, msg).Error(0)
}

var (
	_ persistent.UserRepository          = (*MockUserRepository)(nil)
	_ persistent.PosterRepository        = (*MockPosterRepository)(nil)
	_ persistent.FavoriteRepository      = (*MockFavoriteRepository)(nil)
	_ persistent.ConsultantRepository    = (*MockConsultantRepository)(nil)
	_ persistent.TopConsultantRepository = (*MockTopConsultantRepository)(nil)
	_ persistent.ChatRoomRepository      = (*MockChatRoomRepository)(nil)
	_ cache.TopConsultantCache           = (*MockTopConsultantCache)(nil)
	_ cache.ViewTracker                  = (*MockViewTracker)(nil)
)

// memCategories is an in-memory CategoryRepository.
type memCategories struct {
	rows []*entity.Category
}

func (m *memCategories) EnsureIndexes(context.Context) error { return nil }

func (m *memCategories) Create(_ context.Context, c *entity.Category) error {
	if c.ID == "" {
		c.ID = "cat-" + c.Name
	}
	cp := *c
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memCategories) GetByID(_ context.Context, id string) (*entity.Category, error) {
	for _, c := range m.rows {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, persistent.ErrNotFound
}

func (m *memCategories) List(_ context.Context, parentID *string) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range m.rows {
		if parentID == nil || c.ParentID == *parentID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memCategories) Update(_ context.Context, c *entity.Category) error {
	for i, row := range m.rows {
		if row.ID == c.ID {
			cp := *c
			m.rows[i] = &cp
			return nil
		}
	}
	return persistent.ErrNotFound
}

func (m *memCategories) Delete(_ context.Context, id string) error {
	for i, row := range m.rows {
		if row.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return persistent.ErrNotFound
}

func (m *memCategories) CountChildren(_ context.Context, id string) (int64, error) {
	var n int64
	for _, c := range m.rows {
		if c.ParentID == id {
			n++
		}
	}
	return n, nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateToken(userID, role string) (string, error) {
	return "token-" + userID + "-" + role, nil
}
