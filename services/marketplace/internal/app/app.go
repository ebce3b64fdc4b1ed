package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estate-market/pkg/cache"
	"estate-market/pkg/config"
	"estate-market/pkg/database"
	"estate-market/pkg/guard"
	"estate-market/pkg/jwt"
	"estate-market/pkg/logger"
	"estate-market/pkg/middleware"
	marketHTTP "estate-market/services/marketplace/internal/controller/http"
	repoCache "estate-market/services/marketplace/internal/repo/cache"
	"estate-market/services/marketplace/internal/repo/persistent"
	"estate-market/services/marketplace/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "estate-market/services/marketplace/docs" // Swagger docs
)

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	mongoClient *mongo.Client
	mongoDB     *mongo.Database
	redisClient *redis.Client
	jwtService  *jwt.Service
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	mongoClient, mongoDB, err := database.NewMongoDB(cfg)
	if err != nil {
		log.Error("Failed to connect to MongoDB: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v (rate limiting, view de-duplication and caching disabled)", err)
		redisClient = nil
	}

	return &App{
		cfg:         cfg,
		log:         log,
		mongoClient: mongoClient,
		mongoDB:     mongoDB,
		redisClient: redisClient,
		jwtService:  jwt.NewService(cfg.JWTSecret, jwt.WithTTL(cfg.JWTTTL)),
	}, nil
}

func (a *App) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Initialize repositories
	userRepo := persistent.NewUserRepository(a.mongoDB)
	posterRepo := persistent.NewPosterRepository(a.mongoDB)
	categoryRepo := persistent.NewCategoryRepository(a.mongoDB)
	consultantRepo := persistent.NewConsultantRepository(a.mongoDB)
	topRepo := persistent.NewTopConsultantRepository(a.mongoDB)
	favoriteRepo := persistent.NewFavoriteRepository(a.mongoDB)
	chatRepo := persistent.NewChatRoomRepository(a.mongoDB)
	statsRepo := persistent.NewStatsRepository(a.mongoDB)

	for _, repo := range []indexer{userRepo, posterRepo, categoryRepo, consultantRepo, topRepo, chatRepo} {
		if err := repo.EnsureIndexes(ctx); err != nil {
			a.log.Warn("Failed to ensure indexes: %v", err)
		}
	}

	// Redis-backed helpers degrade to no-ops on a nil client
	views := repoCache.NewViewTracker(a.redisClient)
	topCache := repoCache.NewTopConsultantCache(a.redisClient)

	// Initialize use cases
	authUseCase := usecase.NewAuthUseCase(userRepo, a.jwtService, a.log)
	posterUseCase := usecase.NewPosterUseCase(posterRepo, categoryRepo, favoriteRepo, views, a.log)
	categoryUseCase := usecase.NewCategoryUseCase(categoryRepo, posterRepo, a.log)
	consultantUseCase := usecase.NewConsultantUseCase(consultantRepo, topRepo, topCache, a.log)
	favoriteUseCase := usecase.NewFavoriteUseCase(favoriteRepo, userRepo, posterRepo, a.log)
	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, a.log)
	dashboardUseCase := usecase.NewDashboardUseCase(statsRepo)

	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", middleware.TokenHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	marketHTTP.RegisterRoutes(r, guard.New(a.jwtService), marketHTTP.Handlers{
		Auth:        marketHTTP.NewAuthHandler(authUseCase, a.log),
		Posters:     marketHTTP.NewPosterHandler(posterUseCase, a.log),
		Categories:  marketHTTP.NewCategoryHandler(categoryUseCase, a.log),
		Consultants: marketHTTP.NewConsultantHandler(consultantUseCase, a.log),
		Favorites:   marketHTTP.NewFavoriteHandler(favoriteUseCase, a.log),
		Chats:       marketHTTP.NewChatHandler(chatUseCase, a.log),
		Dashboard:   marketHTTP.NewDashboardHandler(dashboardUseCase, a.log),
	}, middleware.RateLimitMiddleware(a.redisClient, a.cfg.RateLimitPerMin, time.Minute))

	// Create HTTP server
	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Marketplace service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down marketplace service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var shutdownErr error
	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.log.Error("Server forced to shutdown: %v", err)
			shutdownErr = err
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	if err := a.mongoClient.Disconnect(ctx); err != nil {
		a.log.Error("Error closing MongoDB: %v", err)
	}

	a.log.Info("Marketplace service exited")
	a.log.Sync()
	return shutdownErr
}
