package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	JWTSecret        string
	MongoURI         string
	DBName           string
	CronSecret       string // shared secret for the HTTP cron endpoints; empty disables the check
	TakealotBaseURL  string
	WarehouseDSN     string // optional Postgres mirror target
	SkipAuth         bool
	Environment      string
	AppId            string
	JobRetentionDays int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		JWTSecret:        getEnv("JWT_SECRET", "secret"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:           getEnv("DB_NAME", "sellersync"),
		CronSecret:       getEnv("CRON_SECRET", ""),
		TakealotBaseURL:  getEnv("TAKEALOT_BASE_URL", "https://seller-api.takealot.com"),
		WarehouseDSN:     getEnv("WAREHOUSE_DSN", ""),
		SkipAuth:         getEnv("SKIP_AUTH", "false") == "true",
		Environment:      getEnv("ENVIRONMENT", "development"),
		AppId:            getEnv("APP_ID", "sellersync"),
		JobRetentionDays: getEnvInt("JOB_RETENTION_DAYS", 7),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
