package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr        string
	AdminToken  string
	ContentPath string
	UploadsDir  string
	PublicDir   string
	CORSOrigin  string
	// Redis Configuration - empty URL means the file store is used
	RedisURL        string
	RedisContentKey string
	// MinIO Configuration - empty endpoint means uploads go to local disk
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	// Editor session limits
	SessionTTL  time.Duration
	MaxSessions int
}

func Load() Config {
	return Config{
		Addr:        getenv("API_ADDR", ":5500"),
		AdminToken:  getenv("ADMIN_TOKEN", ""),
		ContentPath: getenv("CONTENT_PATH", "./data/content.json"),
		UploadsDir:  getenv("UPLOADS_DIR", "./web/images"),
		PublicDir:   getenv("PUBLIC_DIR", "./web"),
		CORSOrigin:  getenv("CORS_ORIGIN", "*"),
		// Redis - optional whole-document store backend
		RedisURL:        getenv("REDIS_URL", ""),
		RedisContentKey: getenv("REDIS_CONTENT_KEY", "site:content"),
		// MinIO - optional object storage for uploaded images
		MinioEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "site-images"),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "") == "true",
		SessionTTL:     time.Duration(getenvInt("EDITOR_SESSION_TTL_SECONDS", 3600)) * time.Second,
		MaxSessions:    getenvInt("EDITOR_MAX_SESSIONS", 64),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
