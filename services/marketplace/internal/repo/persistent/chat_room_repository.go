package persistent

import (
	"context"
	"sort"
	"time"

	"estate-market/pkg/database"
	"estate-market/services/marketplace/internal/entity"
	"estate-market/services/marketplace/internal/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ChatRoomRepository interface {
	EnsureIndexes(ctx context.Context) error
	FindOrCreate(ctx context.Context, userA, userB string) (*entity.ChatRoom, error)
	GetByID(ctx context.Context, id string) (*entity.ChatRoom, error)
	ListByParticipant(ctx context.Context, userID string) ([]*entity.ChatRoom, error)
	AppendMessage(ctx context.Context, roomID string, msg *entity.Message) error
}

type chatRoomRepository struct {
	coll *mongo.Collection
}

func NewChatRoomRepository(db *mongo.Database) ChatRoomRepository {
	return &chatRoomRepository{coll: db.Collection(database.CollectionChatRooms)}
}

func (r *chatRoomRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "pairKey", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "participants", Value: 1}, {Key: "updatedAt", Value: -1}}},
	})
	return err
}

// PairKey identifies the room of two users regardless of argument order.
func PairKey(userA, userB string) (string, []string) {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return pair[0] + ":" + pair[1], pair
}

func (r *chatRoomRepository) FindOrCreate(ctx context.Context, userA, userB string) (*entity.ChatRoom, error) {
	key, pair := PairKey(userA, userB)
	now := time.Now().UTC()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	var roomModel model.ChatRoomModel
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"pairKey": key}, bson.M{"$setOnInsert": bson.M{
		"_id":          uuid.New().String(),
		"participants": pair,
		"messages":     bson.A{},
		"createdAt":    now,
		"updatedAt":    now,
	}}, opts).Decode(&roomModel)
	if err != nil {
		return nil, translate(err)
	}
	return ToChatRoomEntity(&roomModel), nil
}

func (r *chatRoomRepository) GetByID(ctx context.Context, id string) (*entity.ChatRoom, error) {
	var roomModel model.ChatRoomModel
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&roomModel); err != nil {
		return nil, translate(err)
	}
	return ToChatRoomEntity(&roomModel), nil
}

// ListByParticipant omits message bodies.
func (r *chatRoomRepository) ListByParticipant(ctx context.Context, userID string) ([]*entity.ChatRoom, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetProjection(bson.M{"messages": 0})
	cursor, err := r.coll.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var roomModels []model.ChatRoomModel
	if err := cursor.All(ctx, &roomModels); err != nil {
		return nil, err
	}

	rooms := make([]*entity.ChatRoom, len(roomModels))
	for i := range roomModels {
		rooms[i] = ToChatRoomEntity(&roomModels[i])
	}
	return rooms, nil
}

func (r *chatRoomRepository) AppendMessage(ctx context.Context, roomID string, msg *entity.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	res, err := r.coll.UpdateByID(ctx, roomID, bson.M{
		"$push": bson.M{"messages": ToMessageModel(msg)},
		"$set":  bson.M{"updatedAt": msg.CreatedAt},
	})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
