package persistent

import (
	"context"
	"time"

	"estate-market/pkg/database"
	"estate-market/services/marketplace/internal/entity"
	"estate-market/services/marketplace/internal/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CategoryRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// List returns categories ordered by `order`. A nil parentID lists all;
	// a pointer to "" lists roots.
	List(ctx context.Context, parentID *string) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id string) error
	CountChildren(ctx context.Context, id string) (int64, error)
}

type categoryRepository struct {
	coll *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) CategoryRepository {
	return &categoryRepository{coll: db.Collection(database.CollectionCategories)}
}

func (r *categoryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "parentId", Value: 1}, {Key: "order", Value: 1}},
	})
	return err
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	categoryModel := ToCategoryModel(category)
	if categoryModel.ID == "" {
		categoryModel.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	categoryModel.CreatedAt = now
	categoryModel.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, categoryModel); err != nil {
		return translate(err)
	}
	*category = *ToCategoryEntity(categoryModel)
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var categoryModel model.CategoryModel
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&categoryModel); err != nil {
		return nil, translate(err)
	}
	return ToCategoryEntity(&categoryModel), nil
}

func (r *categoryRepository) List(ctx context.Context, parentID *string) ([]*entity.Category, error) {
	filter := bson.M{}
	if parentID != nil {
		if *parentID == "" {
			filter["parentId"] = bson.M{"$exists": false}
		} else {
			filter["parentId"] = *parentID
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categoryModels []model.CategoryModel
	if err := cursor.All(ctx, &categoryModels); err != nil {
		return nil, err
	}

	categories := make([]*entity.Category, len(categoryModels))
	for i := range categoryModels {
		categories[i] = ToCategoryEntity(&categoryModels[i])
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	category.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"name":      category.Name,
		"order":     category.Order,
		"updatedAt": category.UpdatedAt,
	}}
	if category.ParentID == "" {
		update["$unset"] = bson.M{"parentId": ""}
	} else {
		update["$set"].(bson.M)["parentId"] = category.ParentID
	}

	res, err := r.coll.UpdateByID(ctx, category.ID, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *categoryRepository) CountChildren(ctx context.Context, id string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"parentId": id})
}
