package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	BaseURL      string
	UploadDir    string
	CORSOrigins  []string
	DB           DBConfig
	Redis        RedisConfig
	Auth         AuthConfig
	GeminiAPIKey string
}

type DBConfig struct {
	Driver   string // 'mysql' or 'postgres'
	DSN      string
	LogLevel string // 'silent', 'error', 'warn', 'info'
}

type RedisConfig struct {
	Addr     string // empty disables the cache
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string // required by the server
	TokenTTL  time.Duration
	LoginRate string // limiter format, e.g. "10-M"
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "12h"))
	if err != nil {
		log.Printf("Invalid JWT_TTL, falling back to 12h: %v", err)
		ttl = 12 * time.Hour
	}

	port := getEnv("PORT", "8080")
	return Config{
		Port:        port,
		BaseURL:     getEnv("BASE_URL", "http://localhost:"+port),
		UploadDir:   getEnv("UPLOAD_DIR", "./uploads"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		DB: DBConfig{
			Driver:   getEnv("DB_DRIVER", "mysql"),
			DSN:      os.Getenv("DB_DSN"),
			LogLevel: getEnv("DB_LOG_LEVEL", "warn"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  ttl,
			LoginRate: getEnv("LOGIN_RATE", "10-M"),
		},
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
