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
	"estate-market/pkg/queue"
	"estate-market/pkg/s3"
	mediaHTTP "estate-market/services/media/internal/controller/http"
	"estate-market/services/media/internal/repo/persistent"
	"estate-market/services/media/internal/storage"
	"estate-market/services/media/internal/usecase"
	"estate-market/services/media/internal/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	_ "estate-market/services/media/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	mongoClient *mongo.Client
	mongoDB     *mongo.Database
	redisClient *redis.Client
	queueClient *queue.Client
	s3Client    *s3.Client
	jwtService  *jwt.Service
	httpServer  *http.Server
	cancel      context.CancelFunc
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	mongoClient, mongoDB, err := database.NewMongoDB(cfg)
	if err != nil {
		log.Error("Failed to connect to MongoDB: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v (rate limiting disabled)", err)
		redisClient = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
		queueClient = nil
	}

	var s3Client *s3.Client
	if cfg.S3MirrorEnabled {
		s3Client, err = s3.NewClient(cfg)
		if err != nil {
			log.Error("Failed to create S3 client: %v (mirror disabled)", err)
			s3Client = nil
		}
	}

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		mongoClient: mongoClient,
		mongoDB:     mongoDB,
		redisClient: redisClient,
		queueClient: queueClient,
		s3Client:    s3Client,
		jwtService:  jwt.NewService(cfg.JWTSecret, jwt.WithTTL(cfg.JWTTTL)),
	}, nil
}

func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	chunks, err := storage.NewChunkStore(a.cfg.UploadTempDir)
	if err != nil {
		return err
	}
	media, err := storage.NewMediaStore(a.cfg.MediaRoot)
	if err != nil {
		return err
	}

	// Initialize repositories
	sessionRepo := persistent.NewSessionRepository(a.db)
	videoRepo := persistent.NewVideoRepository(a.mongoDB)
	if err := videoRepo.EnsureIndexes(ctx); err != nil {
		a.log.Warn("Failed to ensure video indexes: %v", err)
	}

	// Interfaces must stay nil when the client is absent.
	var publisher usecase.EventPublisher
	if a.queueClient != nil {
		publisher = a.queueClient
	}
	var mirror usecase.ObjectRemover
	if a.s3Client != nil {
		mirror = a.s3Client
	}

	// Initialize use cases
	uploadUseCase := usecase.NewUploadUseCase(sessionRepo, videoRepo, chunks, media, publisher, a.cfg.UploadSessionTTL, a.log)
	videoUseCase := usecase.NewVideoUseCase(videoRepo, media, mirror, a.log)

	// Background workers
	go worker.NewSweeper(uploadUseCase, a.cfg.UploadSweepInterval, a.log).Run(ctx)
	if a.s3Client != nil && a.queueClient != nil {
		m := worker.NewMirror(media, a.s3Client, videoRepo, a.log)
		if err := m.Start(ctx, a.queueClient); err != nil {
			a.log.Error("Failed to start S3 mirror: %v", err)
		}
	}

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

	mediaHTTP.RegisterRoutes(r, guard.New(a.jwtService), mediaHTTP.Handlers{
		Uploads: mediaHTTP.NewUploadHandler(uploadUseCase, a.cfg.UploadMaxChunkBytes, a.log),
		Media:   mediaHTTP.NewMediaHandler(media, a.log),
		Videos:  mediaHTTP.NewVideoHandler(videoUseCase, a.log),
	}, middleware.RateLimitMiddleware(a.redisClient, a.cfg.RateLimitPerMin, time.Minute))

	// Create HTTP server
	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Media service starting on port %s", a.cfg.ServerPort)
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
	a.log.Info("Shutting down media service...")
}

func (a *App) Shutdown() error {
	// The context is used to inform the server it has 5 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var shutdownErr error
	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.log.Error("Server forced to shutdown: %v", err)
			shutdownErr = err
		}
	}

	// Stop the sweeper and the mirror consumer
	if a.cancel != nil {
		a.cancel()
	}

	if a.queueClient != nil {
		a.queueClient.Close()
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	if err := a.mongoClient.Disconnect(ctx); err != nil {
		a.log.Error("Error closing MongoDB: %v", err)
	}

	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	a.log.Info("Media service exited")
	a.log.Sync()
	return shutdownErr
}
