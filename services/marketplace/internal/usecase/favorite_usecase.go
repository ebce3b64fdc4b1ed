package usecase

import (
	"context"

	"estate-market/pkg/guard"
	"estate-market/pkg/logger"
	"estate-market/services/marketplace/internal/entity"
	"estate-market/services/marketplace/internal/repo/persistent"
)

type FavoriteUseCase interface {
	List(ctx context.Context, caller *guard.Identity) ([]*entity.Poster, error)
	Add(ctx context.Context, caller *guard.Identity, posterID string) error
	Remove(ctx context.Context, caller *guard.Identity, posterID string) error
}

type favoriteUseCase struct {
	favorites persistent.FavoriteRepository
	users     persistent.UserRepository
	posters   persistent.PosterRepository
	logger    *logger.Logger
}

func NewFavoriteUseCase(
	favorites persistent.FavoriteRepository,
	users persistent.UserRepository,
	posters persistent.PosterRepository,
	logger *logger.Logger,
) FavoriteUseCase {
	return &favoriteUseCase{
		favorites: favorites,
		users:     users,
		posters:   posters,
		logger:    logger,
	}
}

// List returns the favorited posters the caller may still see, most recent addition last.
// A poster unpublished after it was favorited drops out until it is published again.
func (uc *favoriteUseCase) List(ctx context.Context, caller *guard.Identity) ([]*entity.Poster, error) {
	if caller == nil {
		return nil, ErrForbidden
	}
	favorite, err := uc.favorites.Get(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	posters, err := uc.posters.GetByIDs(ctx, favorite.PosterIDs)
	if err != nil {
		return nil, err
	}

	visible := make([]*entity.Poster, 0, len(posters))
	for _, p := range posters {
		if visibleTo(caller, p) {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

// Add is idempotent. The poster id is mirrored into the user's own list.
func (uc *favoriteUseCase) Add(ctx context.Context, caller *guard.Identity, posterID string) error {
	if caller == nil {
		return ErrForbidden
	}
	poster, err := uc.posters.GetByID(ctx, posterID)
	if err != nil {
		return notFound(err)
	}
	if !visibleTo(caller, poster) {
		return ErrNotFound
	}

	if err := uc.favorites.Add(ctx, caller.UserID, posterID); err != nil {
		return err
	}
	if err := uc.users.AddFavorite(ctx, caller.UserID, posterID); err != nil {
		uc.logger.Error("[FAVORITE] Failed to mirror %s on user %s: %v", posterID, caller.UserID, err)
	}
	return nil
}

func (uc *favoriteUseCase) Remove(ctx context.Context, caller *guard.Identity, posterID string) error {
	if caller == nil {
		return ErrForbidden
	}
	if err := uc.favorites.Remove(ctx, caller.UserID, posterID); err != nil {
		return err
	}
	if err := uc.users.RemoveFavorite(ctx, caller.UserID, posterID); err != nil {
		uc.logger.Error("[FAVORITE] Failed to unmirror %s on user %s: %v", posterID, caller.UserID, err)
	}
	return nil
}
