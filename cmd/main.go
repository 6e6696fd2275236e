package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/cup-simulator/brackets"
	"github.com/Dosada05/cup-simulator/catalog"
	"github.com/Dosada05/cup-simulator/config"
	"github.com/Dosada05/cup-simulator/db"
	"github.com/Dosada05/cup-simulator/handlers"
	"github.com/Dosada05/cup-simulator/repositories"
	api "github.com/Dosada05/cup-simulator/routes"
	"github.com/Dosada05/cup-simulator/services"
	"github.com/Dosada05/cup-simulator/storage"
	"github.com/go-chi/chi/v5"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	ctx := context.Background()

	var records repositories.RecordRepository
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
		if err != nil {
			logger.Error("failed to connect to database", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			}
		}()
		if err := db.EnsureSchema(ctx, dbConn); err != nil {
			logger.Error("failed to prepare database schema", slog.Any("error", err))
			os.Exit(1)
		}
		records = repositories.NewPostgresRecordRepository(dbConn)
		logger.Info("database connection established")
	} else {
		logger.Info("DATABASE_URL not set, relational records disabled")
	}

	var store repositories.TournamentStore
	if cfg.RedisAddr != "" {
		rdb, err := db.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer rdb.Close()
		store = repositories.NewRedisTournamentStore(rdb, cfg.SnapshotTTL)
		logger.Info("redis tournament store ready", slog.String("addr", cfg.RedisAddr))
	} else {
		store = repositories.NewMemoryTournamentStore()
		logger.Info("REDIS_ADDR not set, using in-memory tournament store")
	}

	var teams repositories.TeamRepository
	if cfg.MongoURI != "" {
		mongoClient, err := db.ConnectMongo(cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			logger.Error("failed to connect to MongoDB", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				logger.Error("failed to disconnect MongoDB", slog.Any("error", err))
			}
		}()
		teams = repositories.NewMongoTeamRepository(mongoClient.Collection(cfg.MongoTeamsCollection))
		logger.Info("MongoDB team catalog ready", slog.String("database", cfg.MongoDatabase))
	} else {
		teams = repositories.NewStaticTeamRepository(nil)
		logger.Info("MONGODB_URI not set, using embedded team catalog")
	}
	if err := teams.EnsureTeams(ctx, catalog.Default()); err != nil {
		logger.Error("failed to seed team catalog", slog.Any("error", err))
		os.Exit(1)
	}

	var uploader storage.FileUploader
	r2Config := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2Config.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, r2Config, logger)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("R2 credentials not set, snapshot export disabled")
	}

	wsHub := brackets.NewHub(logger)
	go wsHub.Run()

	seed := cfg.DrawSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	engine := services.NewEngine(services.NewEloSimulator(), brackets.NewRandomSource(seed), services.DefaultFormat())
	logger.Info("engine ready", slog.Uint64("seed", seed))

	authService := services.NewAuthService(cfg.AdminPasswordHash, cfg.JWTSecretKey, cfg.TokenTTL)
	tournamentService := services.NewTournamentService(services.TournamentServiceDeps{
		Engine:   engine,
		Store:    store,
		Teams:    teams,
		Records:  records,
		Notifier: wsHub,
		Uploader: uploader,
		Logger:   logger,
	})

	authHandler := handlers.NewAuthHandler(authService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)

	router := chi.NewRouter()
	api.SetupRoutes(router, authService, authHandler, tournamentHandler, webSocketHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
