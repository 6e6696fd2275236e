package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the server reads from the environment.
type Config struct {
	ServerPort  int
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SnapshotTTL   time.Duration

	MongoURI             string
	MongoDatabase        string
	MongoTeamsCollection string

	JWTSecretKey      string
	AdminPasswordHash string
	TokenTTL          time.Duration

	DrawSeed uint64

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load reads the configuration, loading a .env file first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	jwtKey := getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}
	adminHash := getenv("ADMIN_PASSWORD_HASH")
	if adminHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH environment variable is not set")
	}

	port, err := getInt(getenv, "SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	redisDB, err := getInt(getenv, "REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	snapshotTTL, err := getDuration(getenv, "TOURNAMENT_SNAPSHOT_TTL", 0)
	if err != nil {
		return nil, err
	}
	tokenTTL, err := getDuration(getenv, "TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	if tokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", tokenTTL)
	}

	var seed uint64
	if raw := getenv("DRAW_SEED"); raw != "" {
		seed, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid DRAW_SEED environment variable: %w", err)
		}
	}

	return &Config{
		ServerPort:           port,
		DatabaseURL:          getenv("DATABASE_URL"),
		RedisAddr:            getenv("REDIS_ADDR"),
		RedisPassword:        getenv("REDIS_PASSWORD"),
		RedisDB:              redisDB,
		SnapshotTTL:          snapshotTTL,
		MongoURI:             getenv("MONGODB_URI"),
		MongoDatabase:        getString(getenv, "MONGODB_DATABASE", "cupsim"),
		MongoTeamsCollection: getString(getenv, "MONGODB_TEAMS_COLLECTION", "teams"),
		JWTSecretKey:         jwtKey,
		AdminPasswordHash:    adminHash,
		TokenTTL:             tokenTTL,
		DrawSeed:             seed,
		R2AccountID:          getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:        getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:    getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:         getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:      getenv("R2_PUBLIC_BASE_URL"),
	}, nil
}

func getString(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(getenv func(string) string, key string, fallback int) (int, error) {
	raw := getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func getDuration(getenv func(string) string, key string, fallback time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}
