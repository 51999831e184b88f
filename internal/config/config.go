package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Plinko
	StartingScore      float64
	FrameRate          int
	BroadcastEvery     int
	MaxBallsPerDrop    int
	SessionIdleMinutes int
	ReaperPollSeconds  int
	BoardFile          string

	// Security
	JWTSecret      string
	TokenTTLHours  int
	MinPINLength   int
	MigrateOnStart bool
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/plinko?sslmode=disable"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Plinko
		StartingScore:      getEnvFloat("STARTING_SCORE", 1000),
		FrameRate:          getEnvInt("FRAME_RATE", 60),
		BroadcastEvery:     getEnvInt("BROADCAST_EVERY", 2),
		MaxBallsPerDrop:    getEnvInt("MAX_BALLS_PER_DROP", 100),
		SessionIdleMinutes: getEnvInt("SESSION_IDLE_MINUTES", 15),
		ReaperPollSeconds:  getEnvInt("REAPER_POLL_SECONDS", 60),
		BoardFile:          getEnv("BOARD_FILE", "configs/board.yaml"),

		// Security
		JWTSecret:      getEnv("JWT_SECRET", "change-me-in-production"),
		TokenTTLHours:  getEnvInt("TOKEN_TTL_HOURS", 24),
		MinPINLength:   getEnvInt("MIN_PIN_LENGTH", 4),
		MigrateOnStart: getEnv("MIGRATE_ON_START", "false") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
