package persistent

import (
	"context"
	"errors"
	"time"

	"estate-market/pkg/database"
	"estate-market/services/marketplace/internal/entity"
	"estate-market/services/marketplace/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FavoriteRepository interface {
	Get(ctx context.Context, userID string) (*entity.Favorite, error)
	Add(ctx context.Context, userID, posterID string) error
	Remove(ctx context.Context, userID, posterID string) error
	RemovePoster(ctx context.Context, posterID string) error
}

type favoriteRepository struct {
	coll *mongo.Collection
}

func NewFavoriteRepository(db *mongo.Database) FavoriteRepository {
	return &favoriteRepository{coll: db.Collection(database.CollectionFavorites)}
}

// Get returns an empty list for a user without favorites.
func (r *favoriteRepository) Get(ctx context.Context, userID string) (*entity.Favorite, error) {
	var favoriteModel model.FavoriteModel
	err := r.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&favoriteModel)
	if err != nil {
		if err = translate(err); errors.Is(err, ErrNotFound) {
			return &entity.Favorite{UserID: userID, PosterIDs: []string{}}, nil
		}
		return nil, err
	}

	ids := favoriteModel.PosterIDs
	if ids == nil {
		ids = []string{}
	}
	return &entity.Favorite{UserID: favoriteModel.UserID, PosterIDs: ids}, nil
}

func (r *favoriteRepository) Add(ctx context.Context, userID, posterID string) error {
	_, err := r.coll.UpdateByID(ctx, userID, bson.M{
		"$addToSet": bson.M{"posterIds": posterID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}, options.Update().SetUpsert(true))
	return translate(err)
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, posterID string) error {
	_, err := r.coll.UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"posterIds": posterID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	return translate(err)
}

// RemovePoster drops a deleted poster from every favorites list.
func (r *favoriteRepository) RemovePoster(ctx context.Context, posterID string) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"posterIds": posterID},
		bson.M{"$pull": bson.M{"posterIds": posterID}},
	)
	return err
}
