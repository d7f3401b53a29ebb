package app

import (
	"os"
	"reflect"
	"testing"
	"time"
)

func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

var configEnvVars = []string{
	"HTTP_ADDR", "STORE_BACKEND", "STORE_PATH", "STORE_QUOTA_BYTES", "STORE_SPILL_DIR",
	"STORE_TIMEOUT_MS", "REDIS_URL", "MONGO_URI", "MONGO_DB", "MONGO_COLLECTION",
	"CATALOG_PATH", "CONTINUE_WATCHING_LIMIT", "CORS_ALLOWED_ORIGINS",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "LOG_MAX_SIZE_MB", "LOG_MAX_BACKUPS", "LOG_MAX_AGE_DAYS",
	"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_TRACE_SAMPLE_RATE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg := LoadConfig()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"HTTPAddr", cfg.HTTPAddr, ":8080"},
		{"StoreBackend", cfg.StoreBackend, BackendBadger},
		{"StorePath", cfg.StorePath, "data/store"},
		{"StoreQuotaBytes", cfg.StoreQuotaBytes, int64(5 << 20)},
		{"StoreSpillDir", cfg.StoreSpillDir, ""},
		{"StoreTimeout", cfg.StoreTimeout, 5 * time.Second},
		{"RedisURL", cfg.RedisURL, "redis://localhost:6379/0"},
		{"MongoURI", cfg.MongoURI, "mongodb://localhost:27017"},
		{"MongoDatabase", cfg.MongoDatabase, "pathportal"},
		{"MongoCollection", cfg.MongoCollection, "kv"},
		{"CatalogPath", cfg.CatalogPath, ""},
		{"ContinueWatchingLimit", cfg.ContinueWatchingLimit, 4},
		{"RateLimitRPS", cfg.RateLimitRPS, 50.0},
		{"RateLimitBurst", cfg.RateLimitBurst, 100},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFormat", cfg.LogFormat, "text"},
		{"LogFile", cfg.LogFile, ""},
		{"LogMaxSizeMB", cfg.LogMaxSizeMB, 100},
		{"LogMaxBackups", cfg.LogMaxBackups, 3},
		{"LogMaxAgeDays", cfg.LogMaxAgeDays, 28},
		{"OTLPEndpoint", cfg.OTLPEndpoint, ""},
		{"TraceSampleRate", cfg.TraceSampleRate, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", tt.got, tt.got, tt.want, tt.want)
			}
		})
	}

	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Errorf("CORSAllowedOrigins: got %v, want nil/empty", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t)
	setEnvs(t, map[string]string{
		"HTTP_ADDR":               ":9090",
		"STORE_BACKEND":           "Redis",
		"STORE_QUOTA_BYTES":       "1024",
		"STORE_TIMEOUT_MS":        "250",
		"REDIS_URL":               "redis://cache:6379/2",
		"CONTINUE_WATCHING_LIMIT": "6",
		"CORS_ALLOWED_ORIGINS":    "http://a.test, ,http://b.test",
		"RATE_LIMIT_RPS":          "2.5",
		"LOG_LEVEL":               "DEBUG",
		"LOG_FORMAT":              "JSON",
		"LOG_FILE":                "/var/log/portal.log",
		"OTEL_TRACE_SAMPLE_RATE":  "1",
	})

	cfg := LoadConfig()

	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.StoreBackend != BackendRedis {
		t.Errorf("StoreBackend = %q", cfg.StoreBackend)
	}
	if cfg.StoreQuotaBytes != 1024 {
		t.Errorf("StoreQuotaBytes = %d", cfg.StoreQuotaBytes)
	}
	if cfg.StoreTimeout != 250*time.Millisecond {
		t.Errorf("StoreTimeout = %v", cfg.StoreTimeout)
	}
	if cfg.RedisURL != "redis://cache:6379/2" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
	if cfg.ContinueWatchingLimit != 6 {
		t.Errorf("ContinueWatchingLimit = %d", cfg.ContinueWatchingLimit)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"http://a.test", "http://b.test"}) {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Errorf("RateLimitRPS = %v", cfg.RateLimitRPS)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("log settings = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.LogFile != "/var/log/portal.log" {
		t.Errorf("LogFile = %q", cfg.LogFile)
	}
	if cfg.TraceSampleRate != 1 {
		t.Errorf("TraceSampleRate = %v", cfg.TraceSampleRate)
	}
}

func TestLoadConfigInvalidFallsBack(t *testing.T) {
	clearEnv(t)
	setEnvs(t, map[string]string{
		"STORE_BACKEND":          "sqlite",
		"STORE_QUOTA_BYTES":      "-1",
		"STORE_TIMEOUT_MS":       "soon",
		"RATE_LIMIT_RPS":         "0",
		"OTEL_TRACE_SAMPLE_RATE": "2",
	})

	cfg := LoadConfig()
	if cfg.StoreBackend != BackendBadger {
		t.Errorf("StoreBackend = %q, want badger", cfg.StoreBackend)
	}
	if cfg.StoreQuotaBytes != 5<<20 {
		t.Errorf("StoreQuotaBytes = %d", cfg.StoreQuotaBytes)
	}
	if cfg.StoreTimeout != 5*time.Second {
		t.Errorf("StoreTimeout = %v", cfg.StoreTimeout)
	}
	if cfg.RateLimitRPS != 50 {
		t.Errorf("RateLimitRPS = %v", cfg.RateLimitRPS)
	}
	if cfg.TraceSampleRate != 0.1 {
		t.Errorf("TraceSampleRate = %v", cfg.TraceSampleRate)
	}
}
