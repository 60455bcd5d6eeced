package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
)

const (
	DefaultLimitQuestions = 20
	MaxLimitQuestions     = 100
)

type Config struct {
	MongoURI  string
	MongoDB   string
	Port      string
	JWTSecret string
	Store     string // "mongo" | "memory"

	CORSOrigins    string
	RequestTimeout time.Duration

	WSSendBuffer   int
	WSPingInterval time.Duration
	WSPongWait     time.Duration
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		log.Warnf("config: %s=%q is not a positive integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil || d <= 0 {
		log.Warnf("config: %s=%q is not a valid duration, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func LoadConfig() Config {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Info(".env file not found, using system environment variables")
	}

	cfg := Config{
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "campusconnect"),
		Port:      getEnv("PORT", "3000"),
		JWTSecret: getEnv("JWT_SECRET", ""),
		Store:     strings.ToLower(getEnv("STORE", "mongo")),

		CORSOrigins:    getEnv("CORS_ORIGINS", "*"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 5*time.Second),

		WSSendBuffer:   getEnvInt("WS_SEND_BUFFER", 32),
		WSPingInterval: getEnvDuration("WS_PING_INTERVAL", 25*time.Second),
		WSPongWait:     getEnvDuration("WS_PONG_WAIT", 60*time.Second),
	}
	return cfg
}
