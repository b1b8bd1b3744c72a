package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gymtracker/gym-api/internal/api"
	"gymtracker/gym-api/internal/auth"
	"gymtracker/gym-api/internal/cache"
	"gymtracker/gym-api/internal/config"
	"gymtracker/gym-api/internal/events"
	"gymtracker/gym-api/internal/logging"
	"gymtracker/gym-api/internal/repository"
	"gymtracker/gym-api/internal/repository/mongo"
	"gymtracker/gym-api/internal/repository/postgres"
	"gymtracker/gym-api/internal/service"
	"gymtracker/gym-api/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// @title Gym API
// @version 1.0
// @description API for managing gym members, trainers, sessions, memberships, workout plans and reviews.
// @host localhost:3000
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// A missing .env is fine; the environment and config.yaml still apply.
	_ = godotenv.Load()

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logrus.WithError(err).Fatal("could not load config")
	}
	log := logging.New(cfg.Log)
	log.Info("Configuration loaded.")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("could not connect to PostgreSQL")
	}
	defer db.Close()
	log.Info("Database connection established.")

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(db); err != nil {
			log.WithError(err).Fatal("could not apply migrations")
		}
		log.Info("Database schema is up to date.")
	}

	// --- Optional Integrations ---
	var apiLogs repository.APILogRepository
	if cfg.Mongo.URI != "" {
		client, err := mongo.ConnectDB(cfg.Mongo.URI)
		if err != nil {
			log.WithError(err).Fatal("could not connect to MongoDB")
		}
		defer func() {
			if err := mongo.DisconnectDB(client); err != nil {
				log.WithError(err).Error("failed to disconnect MongoDB")
			}
		}()
		logDB := client.Database(cfg.Mongo.Name)
		go func() {
			idxCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := mongo.EnsureAPILogIndexes(idxCtx, mongo.APILogCollection(logDB), cfg.Mongo.LogTTL); err != nil {
				log.WithError(err).Warn("failed to ensure api log indexes")
			}
		}()
		apiLogs = mongo.NewMongoAPILogRepository(logDB)
		log.Info("API request log store enabled.")
	}

	var dashboardCache cache.Cache = cache.Noop{}
	if cfg.Redis.Address != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			log.WithError(err).Fatal("could not connect to Redis")
		}
		defer redisCache.Close()
		dashboardCache = redisCache
		log.Info("Dashboard cache enabled.")
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.RabbitMQ.URL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.RabbitMQ)
		if err != nil {
			log.WithError(err).Fatal("could not connect to RabbitMQ")
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.WithField("exchange", cfg.RabbitMQ.Exchange).Info("Event publishing enabled.")
	}

	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3, log)
		if err != nil {
			log.WithError(err).Fatal("failed to initialize S3 storage")
		}
	} else {
		log.Warn("S3 bucket not configured, profile picture uploads are disabled")
	}

	tokens, err := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.Issuer)
	if err != nil {
		log.WithError(err).Fatal("could not create token manager")
	}

	// --- Initialize Repositories ---
	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	membershipRepo := postgres.NewMembershipRepository(db)
	planRepo := postgres.NewWorkoutPlanRepository(db)
	exerciseRepo := postgres.NewExerciseRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)

	// --- Initialize Services ---
	services := api.Services{
		Auth:        service.NewAuthService(userRepo, tokens, fileStorage, publisher, dashboardCache, log),
		Users:       service.NewUserService(userRepo, publisher, dashboardCache, log),
		Sessions:    service.NewSessionService(sessionRepo, userRepo, dashboardCache, log),
		Memberships: service.NewMembershipService(membershipRepo, dashboardCache, log),
		Plans:       service.NewWorkoutPlanService(planRepo, userRepo, log),
		Exercises:   service.NewExerciseService(exerciseRepo, planRepo),
		Reviews:     service.NewReviewService(reviewRepo, userRepo, planRepo),
		Dashboard: service.NewDashboardService(userRepo, sessionRepo, membershipRepo, reviewRepo,
			dashboardCache, cfg.Dashboard.CacheTTL),
	}

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(
		api.RequestID(),
		api.RequestLogger(log, apiLogs),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			log.WithField("panic", recovered).Error("recovered from panic")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}),
	)

	authLimiter := api.NewRateLimiter(cfg.RateLimit, log)
	authLimiter.StartCleanup(ctx, time.Minute)
	api.SetupRoutes(router, tokens, services, api.RouteOptions{
		Metrics:     api.NewMetrics(),
		AuthLimiter: authLimiter,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.WithField("address", cfg.Server.Address).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("ListenAndServe failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	// The server has 5 seconds to finish the requests it is currently handling.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	log.Info("Server exiting.")
}
