package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	Env      string
	LogLevel string
	APIPort  string

	DBDriver         string
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	SQLitePath       string

	BlobBackend   string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool

	CorsOrigins        []string
	RateLimitPerMinute int
	RateLimitBurst     int
	MaxUploadBytes     int64
	ShutdownTimeout    time.Duration
)

// Load reads the .env file if there is one and fills the configuration variables
func Load() {
	// A missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	Env = getString("ENV", "production")
	LogLevel = getString("LOG_LEVEL", "info")
	APIPort = getString("API_PORT", "8080")

	DBDriver = strings.ToLower(getString("DB_DRIVER", "postgres"))
	PostgresHost = getString("POSTGRES_HOST", "localhost")
	PostgresPort = getString("POSTGRES_PORT", "5432")
	PostgresUser = getString("POSTGRES_USER", "postgres")
	PostgresPassword = getString("POSTGRES_PASSWORD", "postgres")
	PostgresDB = getString("POSTGRES_DB", "compsite")
	SQLitePath = getString("SQLITE_PATH", "compsite.db")

	BlobBackend = strings.ToLower(getString("BLOB_BACKEND", "redis"))
	RedisHost = getString("REDIS_HOST", "localhost")
	RedisPort = getString("REDIS_PORT", "6379")
	RedisPassword = getString("REDIS_PASSWORD", "")
	RedisDB = getInt("REDIS_DB", 0)

	S3Endpoint = getString("S3_ENDPOINT", "localhost:9000")
	S3AccessKey = getString("S3_ACCESS_KEY", "")
	S3SecretKey = getString("S3_SECRET_KEY", "")
	S3Bucket = getString("S3_BUCKET", "compsite")
	S3UseSSL = getBool("S3_USE_SSL", true)

	CorsOrigins = splitList(getString("CORS_ORIGINS", "*"))
	RateLimitPerMinute = getInt("RATE_LIMIT_PER_MINUTE", 600)
	RateLimitBurst = getInt("RATE_LIMIT_BURST", 100)
	MaxUploadBytes = int64(getInt("MAX_UPLOAD_BYTES", 10<<20))
	ShutdownTimeout = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
}

// IsDevelopment reports whether the API runs in development mode
func IsDevelopment() bool {
	return Env == "development"
}

func splitList(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if v := strings.TrimRight(strings.TrimSpace(part), "/"); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
