package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable or a default value.
// Bare integers are read as seconds so RATE_LIMIT_WINDOW=60 works.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return defaultVal
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	log.Printf("Warning: invalid %s=%q, using default %s", key, val, defaultVal)
	return defaultVal
}

// GetListEnv returns a comma separated environment variable as a slice.
func GetListEnv(key string, defaultVal []string) []string {
	val := GetEnv(key, "")
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}

// Config is the full set of recognized settings for both paths of the pipeline.
type Config struct {
	Env         string
	Port        string
	MetricsPort string
	LogLevel    string
	Region      string
	Locale      string

	StateStore    string // "redis" or "memory"
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ResultTable    string
	ViolationTable string

	KafkaBrokers     []string
	TransactionTopic string
	ConsumerGroup    string
	AlertTopic       string

	ScoringBaseURL      string
	ScoringEndpointName string

	RateLimitWindow    time.Duration
	RateLimitThreshold int64

	StoreTimeout        time.Duration
	ScoringTimeout      time.Duration
	PersistTimeout      time.Duration
	PublishTimeout      time.Duration
	PublishBatchTimeout time.Duration

	BatchSize      int
	BatchWait      time.Duration
	Workers        int
	AlertQueueSize int
}

// Default values. Every key has one so tests run without an environment.
const (
	DefaultRateLimitWindow    = 60 * time.Second
	DefaultRateLimitThreshold = 5
	DefaultResultTable        = "fraud-results"
	DefaultViolationTable     = "violations"
)

// Load reads the environment into a Config, falling back to defaults.
func Load() Config {
	return Config{
		Env:         GetEnv("ENV", "development"),
		Port:        GetEnv("PORT", "3000"),
		MetricsPort: GetEnv("METRICS_PORT", "9102"),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
		Region:      GetEnv("AWS_REGION", "us-east-1"),
		Locale:      GetEnv("LOCALE", "en-US"),

		StateStore:    GetEnv("STATE_STORE", "redis"),
		RedisHost:     GetEnv("REDIS_HOST", "localhost"),
		RedisPort:     GetEnv("REDIS_PORT", "6379"),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		RedisDB:       GetIntEnv("REDIS_DB", 0),
		RedisPoolSize: GetIntEnv("REDIS_POOL_SIZE", 10),

		DBHost:     GetEnv("DB_HOST", "localhost"),
		DBPort:     GetEnv("DB_PORT", "5432"),
		DBUser:     GetEnv("DB_USER", "postgres"),
		DBPassword: GetEnv("DB_PASSWORD", "postgres"),
		DBName:     GetEnv("DB_NAME", "fraud"),

		ResultTable:    GetEnv("RESULT_TABLE_NAME", DefaultResultTable),
		ViolationTable: GetEnv("VIOLATION_TABLE_NAME", DefaultViolationTable),

		KafkaBrokers:     GetListEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		TransactionTopic: GetEnv("TRANSACTION_TOPIC", "fraud-transactions"),
		ConsumerGroup:    GetEnv("CONSUMER_GROUP", "fraud-scoring"),
		AlertTopic:       GetEnv("ALERT_TOPIC", "fraud-alerts"),

		ScoringBaseURL:      GetEnv("SCORING_BASE_URL", "http://localhost:8080"),
		ScoringEndpointName: GetEnv("SCORING_ENDPOINT_NAME", "fraud-detection-endpoint"),

		RateLimitWindow:    GetDurationEnv("RATE_LIMIT_WINDOW", DefaultRateLimitWindow),
		RateLimitThreshold: int64(GetIntEnv("RATE_LIMIT_THRESHOLD", DefaultRateLimitThreshold)),

		StoreTimeout:        GetDurationEnv("STATE_STORE_TIMEOUT", 500*time.Millisecond),
		ScoringTimeout:      GetDurationEnv("SCORING_TIMEOUT", 3*time.Second),
		PersistTimeout:      GetDurationEnv("PERSIST_TIMEOUT", 2*time.Second),
		PublishTimeout:      GetDurationEnv("PUBLISH_TIMEOUT", 2*time.Second),
		PublishBatchTimeout: GetDurationEnv("PUBLISH_BATCH_TIMEOUT", 5*time.Millisecond),

		BatchSize:      GetIntEnv("BATCH_SIZE", 100),
		BatchWait:      GetDurationEnv("BATCH_WAIT", time.Second),
		Workers:        GetIntEnv("COLD_PATH_WORKERS", 8),
		AlertQueueSize: GetIntEnv("ALERT_QUEUE_SIZE", 256),
	}
}

// RedisAddr joins host and port.
func (c Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// PostgresDSN builds the gorm/pgx connection string.
func (c Config) PostgresDSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=disable"
}
