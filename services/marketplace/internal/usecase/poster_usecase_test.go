package usecase

import (
	"context"
	"errors"
	"testing"

	"estate-market/pkg/guard"
	"estate-market/pkg/logger"
	"estate-market/pkg/models"
	"estate-market/services/marketplace/internal/entity"
	"estate-market/services/marketplace/internal/repo/persistent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type posterFixture struct {
	posters    *MockPosterRepository
	categories *memCategories
	favorites  *MockFavoriteRepository
	views      *MockViewTracker
	uc         PosterUseCase
}

func newPosterFixture() *posterFixture {
	f := &posterFixture{
		posters:    new(MockPosterRepository),
		categories: &memCategories{},
		favorites:  new(MockFavoriteRepository),
		views:      new(MockViewTracker),
	}
	f.uc = NewPosterUseCase(f.posters, f.categories, f.favorites, f.views, logger.NewNop())
	return f
}

var (
	owner    = &guard.Identity{UserID: "owner", Role: models.RoleUser}
	stranger = &guard.Identity{UserID: "stranger", Role: models.RoleUser}
	admin    = &guard.Identity{UserID: "admin", Role: models.RoleAdmin}
)

func validPosterInput() PosterInput {
	return PosterInput{
		Title:      "ویلا",
		ParentType: entity.ParentResidential,
		TradeType:  entity.TradeSale,
		Area:       120,
		Rooms:      3,
		TotalPrice: 5_000_000_000,
		Location:   entity.Location{Latitude: 35.7, Longitude: 51.4},
	}
}

func TestPosterList_NonAdminSeesPublishedOnly(t *testing.T) {
	f := newPosterFixture()
	ctx := context.Background()

	f.posters.On("List", ctx, entity.PosterFilter{Status: entity.StatusPublished, Limit: 20}).
		Return([]*entity.Poster{}, int64(0), nil).Twice()

	_, _, err := f.uc.List(ctx, nil, entity.PosterFilter{Status: entity.StatusPending, Limit: 20})
	require.NoError(t, err)
	_, _, err = f.uc.List(ctx, stranger, entity.PosterFilter{Limit: 20})
	require.NoError(t, err)
	f.posters.AssertExpectations(t)
}

func TestPosterList_AdminFilters(t *testing.T) {
	f := newPosterFixture()
	ctx := context.Background()

	f.posters.On("List", ctx, entity.PosterFilter{Status: entity.StatusPending, Limit: 20}).
		Return([]*entity.Poster{{ID: "p1"}}, int64(1), nil)

	posters, total, err := f.uc.List(ctx, admin, entity.PosterFilter{Status: entity.StatusPending, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, posters, 1)
	assert.Equal(t, int64(1), total)

	_, _, err = f.uc.List(ctx, admin, entity.PosterFilter{Status: "archived"})
	assert.ErrorIs(t, err, ErrValidation)
	_, _, err = f.uc.List(ctx, nil, entity.PosterFilter{TradeType: "barter"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPosterGet_CountsViewOncePerViewer(t *testing.T) {
	f := newPosterFixture()
	ctx := context.Background()

	f.posters.On("GetByID", ctx, "p1").Return(&entity.Poster{ID: "p1", Status: entity.StatusPublished, Views: 7}, nil)
	f.views.On("FirstView", ctx, "p1", "1.2.3.4").Return(true, nil).Once()
	f.views.On("FirstView", ctx, "p1", "1.2.3.4").Return(false, nil)
	f.posters.On("IncrementViews", ctx, "p1").Return(nil).Once()

	poster, err := f.uc.Get(ctx, nil, "p1", "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, int64(8), poster.Views)

	poster, err = f.uc.Get(ctx, nil, "p1", "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, int64(7), poster.Views)
	f.posters.AssertNumberOfCalls(t, "IncrementViews", 1)
}

func TestPosterGet_TrackerErrorSkipsCount(t *testing.T) {
	f := newPosterFixture()
	ctx := context.Background()

	f.posters.On("GetByID", ctx, "p1").Return(&entity.Poster{ID: "p1", Status: entity.StatusPublished}, nil)
	f.views.On("FirstView", ctx, "p1", "v").Return(false, errors.New("redis down"))

	poster, err := f.uc.Get(ctx, nil, "p1", "v")
	require.NoError(t, err)
	assert.Equal(t, int64(0), poster.Views)
	f.posters.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
}

func TestPosterGet_UnpublishedVisibility(t *testing.T) {
	f := newPosterFixture()
	ctx := context.Background()

	f.posters.On("GetByID", ctx, "p1").Return(&entity.Poster{ID: "p1", UserID: "owner", Status: entity.StatusPending}, nil)
	f.views.On("FirstView", ctx, "p1", mock.Anything).Return(false, nil)

	_, err := f.uc.Get(ctx, stranger, "p1", "stranger")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.uc.Get(ctx, nil, "p1", "1.1.1.1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.uc.Get(ctx, owner, "p1", "owner")
	assert.NoError(t, err)
	_, err = f.uc.Get(ctx, admin, "p1", "admin")
	assert.NoError(t, err)
}

func TestPosterGet_Missing(t *testing.T) {
	f := newPosterFixture()
	f.posters.On("GetByID", mock.Anything, "nope").Return(nil, persistent.ErrNotFound)

	_, err := f.uc.Get(context.Background(), nil, "nope", "v")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPosterCreate_StartsPending(t *testing.T) {
	f := newPosterFixture()
	ctx := context.Background()

	f.posters.On("Create", ctx, mock.MatchedBy(func(p *entity.Poster) bool {
		return p.Status == entity.StatusPending && p.UserID == "owner"
	})).Return(nil)

	poster, err := f.uc.Create(ctx, owner, validPosterInput())
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, poster.Status)
	f.posters.AssertExpectations(t)
}

func TestPosterCreate_Validation(t *testing.T) {
	f := newPosterFixture()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*PosterInput)
	}{
		{"empty title", func(in *PosterInput) { in.Title = "  " }},
		{"bad parentType", func(in *PosterInput) { in.ParentType = "castle" }},
		{"bad tradeType", func(in *PosterInput) { in.TradeType = "swap" }},
		{"latitude", func(in *PosterInput) { in.Location.Latitude = 91 }},
		{"longitude", func(in *PosterInput) { in.Location.Longitude = -181 }},
		{"negative area", func(in *PosterInput) { in.Area = -1 }},
		{"negative price", func(in *PosterInput) { in.Rent = -5 }},
		{"too many images", func(in *PosterInput) { in.Images = make([]string, MaxPosterImages+1) }},
		{"unknown category", func(in *PosterInput) { in.CategoryID = "ghost" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validPosterInput()
			tt.mutate(&in)
			_, err := f.uc.Create(ctx, owner, in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	f.posters.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPosterUpdate_OwnerEditReturnsToModeration(t *testing.T) {
	f := newPosterFixture()
	ctx := context.Background()

	f.posters.On("GetByID", ctx, "p1").Return(&entity.Poster{ID: "p1", UserID: "owner", Status: entity.StatusPublished}, nil)
	f.posters.On("Update", ctx, mock.Anything).Return(nil)
	f.posters.On("UpdateStatus", ctx, "p1", entity.StatusPending).Return(nil).Once()

	poster, err := f.uc.Update(ctx, owner, "p1", validPosterInput())
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, poster.Status)

	// admin edits keep the status
	poster, err = f.uc.Update(ctx, admin, "p1", validPosterInput())
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPublished, poster.Status)
	f.posters.AssertNumberOfCalls(t, "UpdateStatus", 1)
}

func TestPosterUpdate_StrangerForbidden(t *testing.T) {
	f := newPosterFixture()
	f.posters.On("GetByID", mock.Anything, "p1").Return(&entity.Poster{ID: "p1", UserID: "owner"}, nil)

	_, err := f.uc.Update(context.Background(), stranger, "p1", validPosterInput())
	assert.ErrorIs(t, err, ErrForbidden)
	f.posters.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPosterSetStatus(t *testing.T) {
	f := newPosterFixture()
	ctx := context.Background()

	_, err := f.uc.SetStatus(ctx, "p1", "archived")
	assert.ErrorIs(t, err, ErrValidation)

	f.posters.On("UpdateStatus", ctx, "p1", entity.StatusPublished).Return(nil)
	f.posters.On("GetByID", ctx, "p1").Return(&entity.Poster{ID: "p1", Status: entity.StatusPublished}, nil)
	poster, err := f.uc.SetStatus(ctx, "p1", entity.StatusPublished)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPublished, poster.Status)
}

func TestPosterDelete_DropsFavorites(t *testing.T) {
	f := newPosterFixture()
	ctx := context.Background()

	f.posters.On("GetByID", ctx, "p1").Return(&entity.Poster{ID: "p1", UserID: "owner"}, nil)
	f.posters.On("Delete", ctx, "p1").Return(nil)
	f.favorites.On("RemovePoster", ctx, "p1").Return(nil)

	assert.ErrorIs(t, f.uc.Delete(ctx, stranger, "p1"), ErrForbidden)
	require.NoError(t, f.uc.Delete(ctx, owner, "p1"))
	f.favorites.AssertExpectations(t)
}
