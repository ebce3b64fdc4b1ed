package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"estate-market/pkg/guard"
	"estate-market/pkg/logger"
	"estate-market/services/marketplace/internal/entity"
	"estate-market/services/marketplace/internal/repo/cache"
	"estate-market/services/marketplace/internal/repo/persistent"
)

const MaxPosterImages = 20

type PosterInput struct {
	Title        string
	Description  string
	Images       []string
	Area         float64
	Rooms        int
	BuildingDate int
	TotalPrice   int64
	PricePerM2   int64
	Deposit      int64
	Rent         int64
	ParentType   entity.ParentType
	TradeType    entity.TradeType
	CategoryID   string
	Address      string
	Location     entity.Location
}

type PosterUseCase interface {
	List(ctx context.Context, caller *guard.Identity, filter entity.PosterFilter) ([]*entity.Poster, int64, error)
	Mine(ctx context.Context, caller *guard.Identity, limit, offset int) ([]*entity.Poster, int64, error)
	// Get counts a view for viewer (user id or client address) once per window.
	Get(ctx context.Context, caller *guard.Identity, id, viewer string) (*entity.Poster, error)
	Create(ctx context.Context, caller *guard.Identity, in PosterInput) (*entity.Poster, error)
	Update(ctx context.Context, caller *guard.Identity, id string, in PosterInput) (*entity.Poster, error)
	SetStatus(ctx context.Context, id string, status entity.PosterStatus) (*entity.Poster, error)
	Delete(ctx context.Context, caller *guard.Identity, id string) error
}

type posterUseCase struct {
	posters    persistent.PosterRepository
	categories persistent.CategoryRepository
	favorites  persistent.FavoriteRepository
	views      cache.ViewTracker
	logger     *logger.Logger
}

func NewPosterUseCase(
	posters persistent.PosterRepository,
	categories persistent.CategoryRepository,
	favorites persistent.FavoriteRepository,
	views cache.ViewTracker,
	logger *logger.Logger,
) PosterUseCase {
	return &posterUseCase{
		posters:    posters,
		categories: categories,
		favorites:  favorites,
		views:      views,
		logger:     logger,
	}
}

func canManage(caller *guard.Identity, p *entity.Poster) bool {
	return caller != nil && (caller.IsAdmin() || caller.UserID == p.UserID)
}

// visibleTo hides unpublished posters from everyone but their owner and admins.
func visibleTo(caller *guard.Identity, p *entity.Poster) bool {
	return p.Status == entity.StatusPublished || canManage(caller, p)
}

// List shows published posters to everyone but admins, who may filter by any status.
func (uc *posterUseCase) List(ctx context.Context, caller *guard.Identity, filter entity.PosterFilter) ([]*entity.Poster, int64, error) {
	if !caller.IsAdmin() {
		filter.Status = entity.StatusPublished
	} else if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrValidation, filter.Status)
	}
	if filter.TradeType != "" && !filter.TradeType.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown tradeType %q", ErrValidation, filter.TradeType)
	}
	if filter.ParentType != "" && !filter.ParentType.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown parentType %q", ErrValidation, filter.ParentType)
	}
	return uc.posters.List(ctx, filter)
}

func (uc *posterUseCase) Mine(ctx context.Context, caller *guard.Identity, limit, offset int) ([]*entity.Poster, int64, error) {
	if caller == nil {
		return nil, 0, ErrForbidden
	}
	return uc.posters.List(ctx, entity.PosterFilter{UserID: caller.UserID, Limit: limit, Offset: offset})
}

func (uc *posterUseCase) Get(ctx context.Context, caller *guard.Identity, id, viewer string) (*entity.Poster, error) {
	poster, err := uc.posters.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if !visibleTo(caller, poster) {
		return nil, ErrNotFound
	}

	first, err := uc.views.FirstView(ctx, id, viewer)
	if err != nil {
		uc.logger.Warn("[POSTER] View tracking failed for %s: %v", id, err)
		return poster, nil
	}
	if first {
		if err := uc.posters.IncrementViews(ctx, id); err != nil {
			uc.logger.Error("[POSTER] Failed to increment views of %s: %v", id, err)
			return poster, nil
		}
		poster.Views++
	}
	return poster, nil
}

func (uc *posterUseCase) validate(ctx context.Context, in *PosterInput) error {
	in.Title = strings.TrimSpace(in.Title)
	switch {
	case in.Title == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case !in.ParentType.Valid():
		return fmt.Errorf("%w: unknown parentType %q", ErrValidation, in.ParentType)
	case !in.TradeType.Valid():
		return fmt.Errorf("%w: unknown tradeType %q", ErrValidation, in.TradeType)
	case !in.Location.Valid():
		return fmt.Errorf("%w: coordinates out of range", ErrValidation)
	case in.Area < 0 || in.Rooms < 0 || in.BuildingDate < 0:
		return fmt.Errorf("%w: negative attribute", ErrValidation)
	case in.TotalPrice < 0 || in.PricePerM2 < 0 || in.Deposit < 0 || in.Rent < 0:
		return fmt.Errorf("%w: negative price", ErrValidation)
	case len(in.Images) > MaxPosterImages:
		return fmt.Errorf("%w: at most %d images", ErrValidation, MaxPosterImages)
	}

	if in.CategoryID != "" {
		if _, err := uc.categories.GetByID(ctx, in.CategoryID); err != nil {
			if errors.Is(err, persistent.ErrNotFound) {
				return fmt.Errorf("%w: unknown category", ErrValidation)
			}
			return err
		}
	}
	return nil
}

func applyPosterInput(p *entity.Poster, in PosterInput) {
	p.Title = in.Title
	p.Description = in.Description
	p.Images = in.Images
	p.Area = in.Area
	p.Rooms = in.Rooms
	p.BuildingDate = in.BuildingDate
	p.TotalPrice = in.TotalPrice
	p.PricePerM2 = in.PricePerM2
	p.Deposit = in.Deposit
	p.Rent = in.Rent
	p.ParentType = in.ParentType
	p.TradeType = in.TradeType
	p.CategoryID = in.CategoryID
	p.Address = in.Address
	p.Location = in.Location
}

func (uc *posterUseCase) Create(ctx context.Context, caller *guard.Identity, in PosterInput) (*entity.Poster, error) {
	if caller == nil {
		return nil, ErrForbidden
	}
	if err := uc.validate(ctx, &in); err != nil {
		return nil, err
	}

	poster := &entity.Poster{UserID: caller.UserID, Status: entity.StatusPending}
	applyPosterInput(poster, in)
	if err := uc.posters.Create(ctx, poster); err != nil {
		return nil, err
	}

	uc.logger.Info("[POSTER] Created %s by %s", poster.ID, caller.UserID)
	return poster, nil
}

// Update by a non-admin owner sends the poster back to moderation.
func (uc *posterUseCase) Update(ctx context.Context, caller *guard.Identity, id string, in PosterInput) (*entity.Poster, error) {
	poster, err := uc.posters.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if !canManage(caller, poster) {
		return nil, ErrForbidden
	}
	if err := uc.validate(ctx, &in); err != nil {
		return nil, err
	}

	applyPosterInput(poster, in)
	if err := uc.posters.Update(ctx, poster); err != nil {
		return nil, notFound(err)
	}

	if !caller.IsAdmin() && poster.Status != entity.StatusPending {
		if err := uc.posters.UpdateStatus(ctx, id, entity.StatusPending); err != nil {
			return nil, notFound(err)
		}
		poster.Status = entity.StatusPending
	}
	return poster, nil
}

func (uc *posterUseCase) SetStatus(ctx context.Context, id string, status entity.PosterStatus) (*entity.Poster, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	if err := uc.posters.UpdateStatus(ctx, id, status); err != nil {
		return nil, notFound(err)
	}

	poster, err := uc.posters.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	uc.logger.Info("[POSTER] Status of %s set to %s", id, status)
	return poster, nil
}

func (uc *posterUseCase) Delete(ctx context.Context, caller *guard.Identity, id string) error {
	poster, err := uc.posters.GetByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if !canManage(caller, poster) {
		return ErrForbidden
	}

	if err := uc.posters.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	if err := uc.favorites.RemovePoster(ctx, id); err != nil {
		uc.logger.Error("[POSTER] Failed to drop %s from favorites: %v", id, err)
	}
	uc.logger.Info("[POSTER] Deleted %s", id)
	return nil
}
