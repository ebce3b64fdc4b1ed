package persistent

import (
	"context"

	"estate-market/pkg/database"
	"estate-market/services/marketplace/internal/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type StatsRepository interface {
	Counters(ctx context.Context) (*entity.Counters, error)
}

type statsRepository struct {
	db *mongo.Database
}

func NewStatsRepository(db *mongo.Database) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) count(ctx context.Context, collection string, filter bson.M) (int64, error) {
	return r.db.Collection(collection).CountDocuments(ctx, filter)
}

func (r *statsRepository) Counters(ctx context.Context) (*entity.Counters, error) {
	counters := &entity.Counters{}
	targets := []struct {
		dst        *int64
		collection string
		filter     bson.M
	}{
		{&counters.Users, database.CollectionUsers, bson.M{}},
		{&counters.Posters, database.CollectionPosters, bson.M{}},
		{&counters.PendingPosters, database.CollectionPosters, bson.M{"status": string(entity.StatusPending)}},
		{&counters.PublishedPosters, database.CollectionPosters, bson.M{"status": string(entity.StatusPublished)}},
		{&counters.Categories, database.CollectionCategories, bson.M{}},
		{&counters.Consultants, database.CollectionConsultants, bson.M{}},
		{&counters.Videos, database.CollectionVideos, bson.M{}},
	}

	for _, t := range targets {
		n, err := r.count(ctx, t.collection, t.filter)
		if err != nil {
			return nil, err
		}
		*t.dst = n
	}
	return counters, nil
}
