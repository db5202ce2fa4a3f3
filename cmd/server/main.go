package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/fitlab/internal/api"
	"alcyxob/fitlab/internal/config"
	"alcyxob/fitlab/internal/gateway"
	"alcyxob/fitlab/internal/logging"
	"alcyxob/fitlab/internal/metrics"
	"alcyxob/fitlab/internal/repository/mongo"
	"alcyxob/fitlab/internal/service"
	"alcyxob/fitlab/internal/session"
	"alcyxob/fitlab/internal/snapshot"
	"alcyxob/fitlab/internal/storage"
	"alcyxob/fitlab/internal/workout"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

// @title Fitlab API
// @version 1.0
// @description Gym management API: members, workout plans, attendance, loads and live workouts.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.Stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	log.Info("starting fitlab server...")

	loc, err := cfg.Session.Location()
	if err != nil {
		log.Fatalf("invalid session timezone %q: %v", cfg.Session.Timezone, err)
	}

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsManager := metrics.NewManager(cfg.Metrics.Namespace, cfg.Metrics.Subsystem, registry)

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Info("disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info("database connection established")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
		log.Info("index creation process completed")
	}()

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	var memoryPhotos storage.MemoryStorage
	if cfg.S3.BucketName == "" {
		log.Warn("s3.bucket_name is empty, progress photos are kept in memory")
		memoryPhotos = storage.NewMemoryStorage("http://" + cfg.Server.Address + "/photos")
		fileStorage = memoryPhotos
	} else {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("failed to initialize S3 storage: %v", err)
		}
	}

	// --- Initialize Snapshot ---
	var snapshotPort snapshot.Port
	if cfg.Redis.Addr == "" {
		log.Warn("redis.addr is empty, session snapshots are kept in memory")
		snapshotPort = snapshot.NewMemoryPort(cfg.Snapshot.MemorySize)
	} else {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warnf("redis ping failed, snapshots may be unavailable: %v", err)
		}
		cancel()
		snapshotPort = snapshot.NewRedisPort(rdb)
	}

	// --- Initialize Gateway & Services ---
	gw := gateway.NewRemoteGateway(gateway.Repositories{
		Members:   mongo.NewMongoMemberRepository(appDB),
		Plans:     mongo.NewMongoPlanRepository(appDB),
		Exercises: mongo.NewMongoExerciseRepository(appDB),
		Content:   mongo.NewMongoContentRepository(appDB),
		CheckIns:  mongo.NewMongoCheckInRepository(appDB),
		Loads:     mongo.NewMongoLoadRepository(appDB),
		Photos:    mongo.NewMongoPhotoRepository(appDB),
	}, fileStorage, metricsManager)

	authService := service.NewAuthService(gw, cfg.JWT.Secret, cfg.JWT.Expiration)
	trainerService := service.NewTrainerService(gw)
	exerciseService := service.NewExerciseService(gw)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if trainer, err := trainerService.EnsureTrainer(bootCtx, cfg.Trainer.Name, cfg.Trainer.Email, cfg.Trainer.Password); err != nil {
		if errors.Is(err, service.ErrTrainerNotConfigured) {
			log.Warn("trainer.email/trainer.password not set, skipping trainer bootstrap")
		} else {
			log.Fatalf("failed to ensure trainer account: %v", err)
		}
	} else {
		log.Infof("trainer account %s ready", trainer.Email)
	}
	if n, err := exerciseService.EnsureCatalog(bootCtx); err != nil {
		log.Warnf("failed to seed exercise catalog: %v", err)
	} else if n > 0 {
		log.Infof("seeded exercise catalog with %d exercises", n)
	}
	bootCancel()

	sessions := session.NewManager(session.ManagerOptions{
		Gateway:         gw,
		Snapshot:        snapshotPort,
		KeyPrefix:       cfg.Snapshot.KeyPrefix,
		Clock:           workout.RealClock(),
		Metrics:         metricsManager,
		RefreshInterval: cfg.Session.RefreshInterval,
	})

	// --- Initialize Gin Engine ---
	if err := api.RegisterValidators(); err != nil {
		log.Fatalf("failed to register validators: %v", err)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), api.CORS(cfg.CORS), api.RequestMetrics(metricsManager))

	api.SetupRoutes(router, api.RouteDeps{
		AuthService:    authService,
		Sessions:       sessions,
		Gatherer:       registry,
		Now:            func() time.Time { return time.Now().In(loc) },
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Photos:         memoryPhotos,
		AppURL:         cfg.Server.PublicURL,
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
		log.Infof("server starting on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}

	log.Info("server exiting")
}
