package persistent

import (
	"context"
	"errors"
	"time"

	"estate-market/pkg/database"
	"estate-market/services/media/internal/entity"
	"estate-market/services/media/internal/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type VideoRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, video *entity.Video) error
	GetByID(ctx context.Context, id string) (*entity.Video, error)
	GetByUploadID(ctx context.Context, uploadID string) (*entity.Video, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Video, int64, error)
	Update(ctx context.Context, video *entity.Video) error
	Delete(ctx context.Context, id string) error
	SetMirrorURL(ctx context.Context, filename, url string) error
}

type videoRepository struct {
	coll *mongo.Collection
}

func NewVideoRepository(db *mongo.Database) VideoRepository {
	return &videoRepository{coll: db.Collection(database.CollectionVideos)}
}

func (r *videoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "uploadId", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "filename", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	return err
}

func (r *videoRepository) Create(ctx context.Context, video *entity.Video) error {
	videoModel := ToVideoModel(video)
	if videoModel.ID == "" {
		videoModel.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	videoModel.CreatedAt = now
	videoModel.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, videoModel); err != nil {
		return err
	}
	*video = *ToVideoEntity(videoModel)
	return nil
}

func (r *videoRepository) findOne(ctx context.Context, filter bson.M) (*entity.Video, error) {
	var videoModel model.VideoModel
	err := r.coll.FindOne(ctx, filter).Decode(&videoModel)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToVideoEntity(&videoModel), nil
}

func (r *videoRepository) GetByID(ctx context.Context, id string) (*entity.Video, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *videoRepository) GetByUploadID(ctx context.Context, uploadID string) (*entity.Video, error) {
	return r.findOne(ctx, bson.M{"uploadId": uploadID})
}

func (r *videoRepository) List(ctx context.Context, limit, offset int) ([]*entity.Video, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var videoModels []model.VideoModel
	if err := cursor.All(ctx, &videoModels); err != nil {
		return nil, 0, err
	}

	videos := make([]*entity.Video, len(videoModels))
	for i := range videoModels {
		videos[i] = ToVideoEntity(&videoModels[i])
	}
	return videos, total, nil
}

func (r *videoRepository) Update(ctx context.Context, video *entity.Video) error {
	video.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateByID(ctx, video.ID, bson.M{"$set": bson.M{
		"title":       video.Title,
		"description": video.Description,
		"alt":         video.Alt,
		"updatedAt":   video.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *videoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *videoRepository) SetMirrorURL(ctx context.Context, filename, url string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"filename": filename},
		bson.M{"$set": bson.M{"mirrorUrl": url, "updatedAt": time.Now().UTC()}},
	)
	return err
}
