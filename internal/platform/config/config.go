package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration for the VISE API.
type Server struct {
	Addr        string
	Environment string
	// PublicDir is the directory served as static assets at /. Empty
	// disables static serving.
	PublicDir string
	// RedisURL selects the Redis-backed client store when set; the
	// in-memory store is used otherwise.
	RedisURL string
	Redis    RedisConfig
	Tracing  TracingConfig
	// AuditBufferSize >0 switches audit event forwarding to async mode
	// with a channel of that capacity.
	AuditBufferSize int
}

// RedisConfig tunes the Redis connection pool.
type RedisConfig struct {
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// TracingConfig configures OTLP trace export. Headers carry the bearer token
// and dataset for Axiom-style ingest endpoints.
type TracingConfig struct {
	Enabled        bool
	Endpoint       string
	Insecure       bool
	Token          string
	Dataset        string
	SampleRate     float64
	ServiceName    string
	ServiceVersion string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("VISE_ADDR")
	if addr == "" {
		addr = ":3000"
	}
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	publicDir := os.Getenv("VISE_PUBLIC_DIR")
	if publicDir == "" {
		publicDir = "public"
	}

	return Server{
		Addr:        addr,
		Environment: env,
		PublicDir:   publicDir,
		RedisURL:    os.Getenv("REDIS_URL"),
		Redis: RedisConfig{
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Tracing: TracingConfig{
			Enabled:        os.Getenv("TRACING_ENABLED") == "true",
			Endpoint:       envOr("OTLP_ENDPOINT", "api.axiom.co"),
			Insecure:       os.Getenv("OTLP_INSECURE") == "true",
			Token:          os.Getenv("AXIOM_TOKEN"),
			Dataset:        envOr("AXIOM_DATASET", "vise-api-logs"),
			SampleRate:     envFloat("TRACING_SAMPLE_RATE", 1.0),
			ServiceName:    "vise-api",
			ServiceVersion: envOr("SERVICE_VERSION", "1.0.0"),
		},
		AuditBufferSize: envInt("AUDIT_BUFFER_SIZE", 64),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
