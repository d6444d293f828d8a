package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Listing sources.
const (
	SourceSnapshot = "snapshot"
	SourceLive     = "live"
)

// Snapshot stores.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

type Config struct {
	DatabaseURL     string
	RedisURL        string
	PartnerAPIURL   string
	PartnerAPIKey   string
	PartnerLanguage string
	HTTPPort        string
	MetricsPort     string
	WorkerCount     int
	BatchSize       int
	PageSize        int
	SitesFile       string
	ListingSource   string
	SnapshotSource  string
	CacheTTL        time.Duration
	LogLevel        string
}

func Load() *Config {
	// .env in the working directory, if any
	_ = godotenv.Load()
	return &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		PartnerAPIURL:   getEnv("PARTNER_API_URL", "https://api.viator.com"),
		PartnerAPIKey:   os.Getenv("PARTNER_API_KEY"),
		PartnerLanguage: getEnv("PARTNER_LANGUAGE", "en-US"),
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MetricsPort:     getEnv("METRICS_PORT", "9090"),
		WorkerCount:     getEnvInt("WORKER_COUNT", 5),
		BatchSize:       getEnvInt("BATCH_SIZE", 100),
		PageSize:        getEnvInt("PAGE_SIZE", 21),
		SitesFile:       getEnv("SITES_FILE", "configs/sites.yaml"),
		ListingSource:   oneOf(getEnv("LISTING_SOURCE", SourceSnapshot), SourceSnapshot, SourceLive),
		SnapshotSource:  oneOf(getEnv("SNAPSHOT_SOURCE", StoreFile), StoreFile, StorePostgres),
		CacheTTL:        getEnvDuration("CACHE_TTL", 6*time.Hour),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil && v > 0 {
		return v
	}
	return d
}

func getEnvDuration(k string, d time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(k)); err == nil && v > 0 {
		return v
	}
	return d
}

// oneOf returns v lowercased when it is an allowed value, else the first allowed value.
func oneOf(v string, allowed ...string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return allowed[0]
}
