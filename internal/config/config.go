package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Pathstore connection; persistence is disabled when URL is empty.
	PathstoreURL    string
	PathstoreAPIKey string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64
	MaxBatchFiles  int

	// Job state
	JobTTL time.Duration

	// Extraction stats window
	StatsWindow time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

const (
	defaultPort          = "8090"
	defaultWorkerCount   = 4
	defaultMaxQueueSize  = 100
	defaultMaxUpload     = 50 << 20
	defaultMaxBatchFiles = 50
	defaultJobTTL        = time.Hour
	defaultStatsWindow   = time.Hour
)

// Load reads the configuration from the environment. Missing, unparsable
// and non-positive numeric values fall back to their defaults.
func Load() Config {
	return Config{
		Port: envOr("PORT", defaultPort),

		PathstoreURL:    os.Getenv("PATHSTORE_URL"),
		PathstoreAPIKey: os.Getenv("PATHSTORE_API_KEY"),

		APIKey: os.Getenv("DOCOUTLINE_API_KEY"),

		WorkerCount:  positive(envInt("WORKER_COUNT", defaultWorkerCount), defaultWorkerCount),
		MaxQueueSize: positive(envInt("MAX_QUEUE_SIZE", defaultMaxQueueSize), defaultMaxQueueSize),

		MaxUploadBytes: positive(envInt64("MAX_UPLOAD_BYTES", defaultMaxUpload), defaultMaxUpload),
		MaxBatchFiles:  positive(envInt("MAX_BATCH_FILES", defaultMaxBatchFiles), defaultMaxBatchFiles),

		JobTTL:      positive(envDuration("JOB_TTL", defaultJobTTL), defaultJobTTL),
		StatsWindow: positive(envDuration("STATS_WINDOW", defaultStatsWindow), defaultStatsWindow),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}
}

func positive[T int | int64 | time.Duration](v, fallback T) T {
	if v <= 0 {
		return fallback
	}
	return v
}

// Validate checks the settings the HTTP server needs.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCOUTLINE_API_KEY is required")
	}
	if c.PathstoreURL != "" && c.PathstoreAPIKey == "" {
		return fmt.Errorf("PATHSTORE_API_KEY is required when PATHSTORE_URL is set")
	}
	return nil
}

// PersistenceEnabled reports whether outlines are stored in pathstore.
func (c Config) PersistenceEnabled() bool {
	return c.PathstoreURL != ""
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

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
