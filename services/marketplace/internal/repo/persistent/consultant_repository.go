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

type ConsultantRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, consultant *entity.Consultant) error
	GetByID(ctx context.Context, id string) (*entity.Consultant, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Consultant, error)
	List(ctx context.Context, activeOnly bool) ([]*entity.Consultant, error)
	Update(ctx context.Context, consultant *entity.Consultant) error
	Delete(ctx context.Context, id string) error
}

type consultantRepository struct {
	coll *mongo.Collection
}

func NewConsultantRepository(db *mongo.Database) ConsultantRepository {
	return &consultantRepository{coll: db.Collection(database.CollectionConsultants)}
}

func (r *consultantRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "isActive", Value: 1}}},
	})
	return err
}

func (r *consultantRepository) Create(ctx context.Context, consultant *entity.Consultant) error {
	consultantModel := ToConsultantModel(consultant)
	if consultantModel.ID == "" {
		consultantModel.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	consultantModel.CreatedAt = now
	consultantModel.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, consultantModel); err != nil {
		return translate(err)
	}
	*consultant = *ToConsultantEntity(consultantModel)
	return nil
}

func (r *consultantRepository) GetByID(ctx context.Context, id string) (*entity.Consultant, error) {
	var consultantModel model.ConsultantModel
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&consultantModel); err != nil {
		return nil, translate(err)
	}
	return ToConsultantEntity(&consultantModel), nil
}

func (r *consultantRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Consultant, error) {
	if len(ids) == 0 {
		return []*entity.Consultant{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *consultantRepository) List(ctx context.Context, activeOnly bool) ([]*entity.Consultant, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	return r.find(ctx, filter)
}

func (r *consultantRepository) find(ctx context.Context, filter bson.M) ([]*entity.Consultant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var consultantModels []model.ConsultantModel
	if err := cursor.All(ctx, &consultantModels); err != nil {
		return nil, err
	}

	consultants := make([]*entity.Consultant, len(consultantModels))
	for i := range consultantModels {
		consultants[i] = ToConsultantEntity(&consultantModels[i])
	}
	return consultants, nil
}

func (r *consultantRepository) Update(ctx context.Context, consultant *entity.Consultant) error {
	consultant.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateByID(ctx, consultant.ID, bson.M{"$set": bson.M{
		"name":       consultant.Name,
		"phone":      consultant.Phone,
		"avatar":     consultant.Avatar,
		"bio":        consultant.Bio,
		"experience": consultant.Experience,
		"isActive":   consultant.IsActive,
		"updatedAt":  consultant.UpdatedAt,
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *consultantRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
