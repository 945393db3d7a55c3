package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	GeminiAPIKey  string
	DatabaseURL   string
	CatalogPath   string
	HTTPPort      string
	LogLevel      string
	JWTSecret     string
	TopKResults   int
	SearchTimeout time.Duration
	SessionTTL    time.Duration
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		DatabaseURL:   getEnv("DATABASE_URL", "movie_advisor.db"),
		CatalogPath:   getEnv("CATALOG_PATH", "data/movies.json"),
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		TopKResults:   getEnvAsInt("TOP_K_RESULTS", 5),
		SearchTimeout: time.Duration(getEnvAsInt("SEARCH_TIMEOUT_SECONDS", 15)) * time.Second,
		SessionTTL:    time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
	}

	if AppConfig.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable is required")
	}

	if AppConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
