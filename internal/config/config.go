package config

import (
	"os"
	"strings"
)

const (
	defaultPort        = "8080"
	defaultDatabaseURL = "data/records.db"
	defaultUploadDir   = "./uploads"
)

// Config holds runtime settings for the API server. Everything comes from
// the environment with local-development defaults; a postgres:// DATABASE_URL
// switches persistence to PostgreSQL.
type Config struct {
	Port        string
	DatabaseURL string
	UploadDir   string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", defaultPort),
		DatabaseURL: getEnv("DATABASE_URL", defaultDatabaseURL),
		UploadDir:   getEnv("UPLOAD_DIR", defaultUploadDir),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
