package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr              string
	StoreBackend          string
	StorePath             string
	StoreQuotaBytes       int64
	StoreSpillDir         string
	StoreTimeout          time.Duration
	RedisURL              string
	MongoURI              string
	MongoDatabase         string
	MongoCollection       string
	CatalogPath           string
	ContinueWatchingLimit int
	CORSAllowedOrigins    []string
	RateLimitRPS          float64
	RateLimitBurst        int
	LogLevel              string
	LogFormat             string
	LogFile               string
	LogMaxSizeMB          int
	LogMaxBackups         int
	LogMaxAgeDays         int
	OTLPEndpoint          string
	TraceSampleRate       float64
}

const (
	BackendBadger = "badger"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

func LoadConfig() Config {
	return Config{
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		StoreBackend:          parseBackend(getEnv("STORE_BACKEND", BackendBadger)),
		StorePath:             getEnv("STORE_PATH", "data/store"),
		StoreQuotaBytes:       getEnvInt64("STORE_QUOTA_BYTES", 5<<20),
		StoreSpillDir:         getEnv("STORE_SPILL_DIR", ""),
		StoreTimeout:          time.Duration(getEnvInt64("STORE_TIMEOUT_MS", 5000)) * time.Millisecond,
		RedisURL:              getEnv("REDIS_URL", "redis://localhost:6379/0"),
		MongoURI:              getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:         getEnv("MONGO_DB", "pathportal"),
		MongoCollection:       getEnv("MONGO_COLLECTION", "kv"),
		CatalogPath:           getEnv("CATALOG_PATH", ""),
		ContinueWatchingLimit: int(getEnvInt64("CONTINUE_WATCHING_LIMIT", 4)),
		CORSAllowedOrigins:    getEnvList("CORS_ALLOWED_ORIGINS"),
		RateLimitRPS:          getEnvFloat("RATE_LIMIT_RPS", 50),
		RateLimitBurst:        int(getEnvInt64("RATE_LIMIT_BURST", 100)),
		LogLevel:              strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:             strings.ToLower(getEnv("LOG_FORMAT", "text")),
		LogFile:               getEnv("LOG_FILE", ""),
		LogMaxSizeMB:          int(getEnvInt64("LOG_MAX_SIZE_MB", 100)),
		LogMaxBackups:         int(getEnvInt64("LOG_MAX_BACKUPS", 3)),
		LogMaxAgeDays:         int(getEnvInt64("LOG_MAX_AGE_DAYS", 28)),
		OTLPEndpoint:          strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		TraceSampleRate:       parseSampleRate(os.Getenv("OTEL_TRACE_SAMPLE_RATE")),
	}
}

func parseBackend(value string) string {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case BackendBadger, BackendMemory, BackendRedis, BackendMongo:
		return v
	}
	return BackendBadger
}

// parseSampleRate returns a rate in [0,1], defaulting to 0.1.
func parseSampleRate(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0.1
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil || rate < 0 || rate > 1 {
		return 0.1
	}
	return rate
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	if parsed < 0 {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getEnvList(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
