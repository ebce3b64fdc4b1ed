package database

import (
	"context"
	"fmt"
	"time"

	"estate-market/pkg/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names shared by both services.
const (
	CollectionUsers          = "users"
	CollectionPosters        = "posters"
	CollectionCategories     = "categories"
	CollectionConsultants    = "consultants"
	CollectionTopConsultants = "top_consultants"
	CollectionFavorites      = "favorites"
	CollectionChatRooms      = "chat_rooms"
	CollectionVideos         = "videos"
)

// NewMongoDB connects once at startup; the returned client owns the connection pool.
func NewMongoDB(cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(50).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.MongoDB), nil
}
