package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-hub/adapters/event"
	httpAdapter "github.com/khoahotran/profile-hub/adapters/http"
	"github.com/khoahotran/profile-hub/adapters/media_storage"
	"github.com/khoahotran/profile-hub/adapters/persistence"
	"github.com/khoahotran/profile-hub/internal/application/service"
	authUC "github.com/khoahotran/profile-hub/internal/application/usecase/auth"
	profileUC "github.com/khoahotran/profile-hub/internal/application/usecase/profile"
	"github.com/khoahotran/profile-hub/internal/config"
	"github.com/khoahotran/profile-hub/pkg/auth"
	"github.com/khoahotran/profile-hub/pkg/logger"
	"github.com/khoahotran/profile-hub/pkg/tracing"
)

func main() {
	fmt.Println("Start Profile Hub API Server...")
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	tp, err := tracing.NewTracerProvider(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init tracer provider", err)
	}
	if tp != nil {
		defer func() {
			if err := tp.Shutdown(ctx); err != nil {
				appLogger.Error("Failed to shut down tracer provider", err)
			}
		}()
	}

	if cfg.DB.AutoMigrate {
		if err := persistence.RunMigrations(ctx, cfg.DB.DSN, appLogger); err != nil {
			appLogger.Fatal("cannot run migrations", err)
		}
	}

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	var limiter service.LoginLimiter = service.NoopLoginLimiter{}
	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Fatal("cannot connect Redis", err)
		}
		defer redisClient.Close()
		limiter = persistence.NewRedisLoginLimiter(redisClient, cfg.Redis.LoginMaxAttempts, cfg.Redis.LoginWindow)
	}

	var publisher service.UserEventPublisher = service.NoopUserEventPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		publisher = kafkaClient
	}

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool, appLogger)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	uploader, err := media_storage.NewUploader(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}

	// Use Cases
	registerUseCase := authUC.NewRegisterUseCase(userRepo, hasher, publisher, appLogger)
	loginUseCase := authUC.NewLoginUseCase(userRepo, hasher, jwtSvc, limiter, appLogger)
	profileUseCase := profileUC.NewProfileUseCase(userRepo, uploader, publisher, appLogger)

	// HTTP Handlers
	authHandler := httpAdapter.NewAuthHandler(registerUseCase, loginUseCase, cfg.App.BaseURL, appLogger)
	profileHandler := httpAdapter.NewProfileHandler(profileUseCase, cfg.App.BaseURL, appLogger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	routerDeps := httpAdapter.RouterDeps{
		AuthHandler:        authHandler,
		ProfileHandler:     profileHandler,
		JWTService:         jwtSvc,
		Logger:             appLogger,
		Production:         cfg.IsProduction(),
		MaxMultipartMemory: cfg.Upload.MaxBytes,
	}
	if cfg.Upload.Provider == config.UploadProviderLocal {
		routerDeps.UploadDir = cfg.Upload.Dir
	}
	router := httpAdapter.NewRouter(routerDeps)

	appLogger.Info("Server running", zap.String("port", cfg.App.Port))
	if err := router.Run(":" + cfg.App.Port); err != nil {
		appLogger.Fatal("Cannot run server", err)
	}
}
