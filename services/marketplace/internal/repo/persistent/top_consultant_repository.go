package persistent

import (
	"context"
	"time"

	"estate-market/pkg/database"
	"estate-market/services/marketplace/internal/entity"
	"estate-market/services/marketplace/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TopConsultantRepository interface {
	EnsureIndexes(ctx context.Context) error
	List(ctx context.Context) ([]*entity.TopConsultant, error)
	// Set upserts rank. ErrDuplicate means the consultant already holds another rank.
	Set(ctx context.Context, top *entity.TopConsultant) error
	Delete(ctx context.Context, rank int) error
	DeleteByConsultant(ctx context.Context, consultantID string) error
}

type topConsultantRepository struct {
	coll *mongo.Collection
}

func NewTopConsultantRepository(db *mongo.Database) TopConsultantRepository {
	return &topConsultantRepository{coll: db.Collection(database.CollectionTopConsultants)}
}

func (r *topConsultantRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "consultantId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *topConsultantRepository) List(ctx context.Context) ([]*entity.TopConsultant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var topModels []model.TopConsultantModel
	if err := cursor.All(ctx, &topModels); err != nil {
		return nil, err
	}

	tops := make([]*entity.TopConsultant, len(topModels))
	for i := range topModels {
		tops[i] = ToTopConsultantEntity(&topModels[i])
	}
	return tops, nil
}

func (r *topConsultantRepository) Set(ctx context.Context, top *entity.TopConsultant) error {
	top.UpdatedAt = time.Now().UTC()
	_, err := r.coll.UpdateByID(ctx, top.Rank, bson.M{"$set": bson.M{
		"consultantId": top.ConsultantID,
		"isActive":     top.IsActive,
		"updatedAt":    top.UpdatedAt,
	}}, options.Update().SetUpsert(true))
	return translate(err)
}

func (r *topConsultantRepository) Delete(ctx context.Context, rank int) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": rank})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *topConsultantRepository) DeleteByConsultant(ctx context.Context, consultantID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"consultantId": consultantID})
	return err
}
