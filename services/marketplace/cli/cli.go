// Package cli exposes marketplace operator commands for estatectl.
package cli

import (
	"context"
	"time"

	pkgcache "estate-market/pkg/cache"
	"estate-market/pkg/config"
	"estate-market/pkg/database"
	"estate-market/pkg/jwt"
	"estate-market/pkg/logger"
	"estate-market/services/marketplace/internal/repo/cache"
	"estate-market/services/marketplace/internal/repo/persistent"
	"estate-market/services/marketplace/internal/usecase"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
)

// Commands returns the marketplace subcommands.
func Commands() []*cobra.Command {
	return []*cobra.Command{newSeedCmd(), newCreateAdminCmd()}
}

type env struct {
	log         *logger.Logger
	client      *mongo.Client
	redis       *redis.Client
	auth        usecase.AuthUseCase
	posters     usecase.PosterUseCase
	categories  usecase.CategoryUseCase
	consultants usecase.ConsultantUseCase
}

func connect() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New()

	client, db, err := database.NewMongoDB(cfg)
	if err != nil {
		return nil, err
	}

	// Redis is only needed so rank changes reach the running service's cache.
	redisClient, err := pkgcache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Redis unavailable: %v (top consultant cache not invalidated)", err)
		redisClient = nil
	}

	users := persistent.NewUserRepository(db)
	posters := persistent.NewPosterRepository(db)
	categories := persistent.NewCategoryRepository(db)
	consultants := persistent.NewConsultantRepository(db)
	tops := persistent.NewTopConsultantRepository(db)

	return &env{
		log:         log,
		client:      client,
		redis:       redisClient,
		auth:        usecase.NewAuthUseCase(users, jwt.NewService(cfg.JWTSecret, jwt.WithTTL(cfg.JWTTTL)), log),
		posters:     usecase.NewPosterUseCase(posters, categories, persistent.NewFavoriteRepository(db), cache.NewViewTracker(redisClient), log),
		categories:  usecase.NewCategoryUseCase(categories, posters, log),
		consultants: usecase.NewConsultantUseCase(consultants, tops, cache.NewTopConsultantCache(redisClient), log),
	}, nil
}

func (e *env) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if e.redis != nil {
		e.redis.Close()
	}
	if err := e.client.Disconnect(ctx); err != nil {
		e.log.Error("Error closing MongoDB: %v", err)
	}
	e.log.Sync()
}
