package persistent

import (
	"context"
	"regexp"
	"time"

	"estate-market/pkg/database"
	"estate-market/services/marketplace/internal/entity"
	"estate-market/services/marketplace/internal/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PosterRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, poster *entity.Poster) error
	GetByID(ctx context.Context, id string) (*entity.Poster, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Poster, error)
	List(ctx context.Context, filter entity.PosterFilter) ([]*entity.Poster, int64, error)
	Update(ctx context.Context, poster *entity.Poster) error
	UpdateStatus(ctx context.Context, id string, status entity.PosterStatus) error
	IncrementViews(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
}

type posterRepository struct {
	coll *mongo.Collection
}

func NewPosterRepository(db *mongo.Database) PosterRepository {
	return &posterRepository{coll: db.Collection(database.CollectionPosters)}
}

func (r *posterRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "categoryId", Value: 1}}},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
	})
	return err
}

func (r *posterRepository) Create(ctx context.Context, poster *entity.Poster) error {
	posterModel := ToPosterModel(poster)
	if posterModel.ID == "" {
		posterModel.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	posterModel.CreatedAt = now
	posterModel.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, posterModel); err != nil {
		return translate(err)
	}
	*poster = *ToPosterEntity(posterModel)
	return nil
}

func (r *posterRepository) GetByID(ctx context.Context, id string) (*entity.Poster, error) {
	var posterModel model.PosterModel
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&posterModel); err != nil {
		return nil, translate(err)
	}
	return ToPosterEntity(&posterModel), nil
}

func (r *posterRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Poster, error) {
	if len(ids) == 0 {
		return []*entity.Poster{}, nil
	}
	posters, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
	if err != nil {
		return nil, err
	}

	// keep the caller's order
	byID := make(map[string]*entity.Poster, len(posters))
	for _, p := range posters {
		byID[p.ID] = p
	}
	ordered := make([]*entity.Poster, 0, len(posters))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// BuildPosterFilter turns a PosterFilter into a mongo query document.
func BuildPosterFilter(f entity.PosterFilter) bson.M {
	query := bson.M{}
	if f.TradeType != "" {
		query["tradeType"] = string(f.TradeType)
	}
	if f.ParentType != "" {
		query["parentType"] = string(f.ParentType)
	}
	if f.CategoryID != "" {
		query["categoryId"] = f.CategoryID
	}
	if f.Status != "" {
		query["status"] = string(f.Status)
	}
	if f.UserID != "" {
		query["userId"] = f.UserID
	}
	if f.Rooms > 0 {
		query["rooms"] = f.Rooms
	}

	price := bson.M{}
	if f.MinPrice > 0 {
		price["$gte"] = f.MinPrice
	}
	if f.MaxPrice > 0 {
		price["$lte"] = f.MaxPrice
	}
	if len(price) > 0 {
		query["totalPrice"] = price
	}

	area := bson.M{}
	if f.MinArea > 0 {
		area["$gte"] = f.MinArea
	}
	if f.MaxArea > 0 {
		area["$lte"] = f.MaxArea
	}
	if len(area) > 0 {
		query["area"] = area
	}

	if f.Query != "" {
		pattern := regexp.QuoteMeta(f.Query)
		query["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"address": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	return query
}

func (r *posterRepository) List(ctx context.Context, filter entity.PosterFilter) ([]*entity.Poster, int64, error) {
	query := BuildPosterFilter(filter)
	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(filter.Offset)).
		SetLimit(int64(filter.Limit))
	posters, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return posters, total, nil
}

func (r *posterRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*entity.Poster, error) {
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posterModels []model.PosterModel
	if err := cursor.All(ctx, &posterModels); err != nil {
		return nil, err
	}

	posters := make([]*entity.Poster, len(posterModels))
	for i := range posterModels {
		posters[i] = ToPosterEntity(&posterModels[i])
	}
	return posters, nil
}

func (r *posterRepository) Update(ctx context.Context, poster *entity.Poster) error {
	poster.UpdatedAt = time.Now().UTC()
	m := ToPosterModel(poster)
	return r.update(ctx, poster.ID, bson.M{"$set": bson.M{
		"title":         m.Title,
		"description":   m.Description,
		"images":        m.Images,
		"area":          m.Area,
		"rooms":         m.Rooms,
		"buildingDate":  m.BuildingDate,
		"totalPrice":    m.TotalPrice,
		"pricePerMeter": m.PricePerM2,
		"deposit":       m.Deposit,
		"rent":          m.Rent,
		"parentType":    m.ParentType,
		"tradeType":     m.TradeType,
		"categoryId":    m.CategoryID,
		"address":       m.Address,
		"location":      m.Location,
		"updatedAt":     m.UpdatedAt,
	}})
}

func (r *posterRepository) UpdateStatus(ctx context.Context, id string, status entity.PosterStatus) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"status": string(status), "updatedAt": time.Now().UTC()}})
}

func (r *posterRepository) IncrementViews(ctx context.Context, id string) error {
	return r.update(ctx, id, bson.M{"$inc": bson.M{"views": 1}})
}

func (r *posterRepository) update(ctx context.Context, id string, update bson.M) error {
	res, err := r.coll.UpdateByID(ctx, id, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *posterRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *posterRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"categoryId": categoryID})
}
