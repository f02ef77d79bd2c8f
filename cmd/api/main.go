package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hearth/api/internal/app"
	"hearth/api/internal/auth"
	"hearth/api/internal/config"
	"hearth/api/internal/store"
	"hearth/api/internal/upload"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	gate := auth.NewGate(cfg.AdminToken)
	if !gate.Configured() {
		log.Printf("WARNING: ADMIN_TOKEN missing in environment; all content writes will be rejected")
	}

	var contentStore store.Store
	if strings.TrimSpace(cfg.RedisURL) != "" {
		log.Printf("Using Redis for content storage")
		redisStore, err := store.NewRedisStore(cfg.RedisURL, cfg.RedisContentKey)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		contentStore = redisStore
	} else {
		log.Printf("Using content file at %s", cfg.ContentPath)
		contentStore = store.NewFileStore(cfg.ContentPath)
	}
	defer contentStore.Close()

	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		log.Fatalf("failed to create uploads dir: %v", err)
	}

	var objectStorage upload.Storage
	if strings.TrimSpace(cfg.MinioEndpoint) != "" {
		minioStorage, err := upload.NewMinioStorage(upload.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			log.Printf("WARNING: object storage unavailable, uploads go to local disk: %v", err)
		} else {
			log.Printf("Using object storage bucket %s for uploads", cfg.MinioBucket)
			objectStorage = minioStorage
		}
	}
	uploads := upload.NewService(objectStorage, upload.NewLocalStorage(cfg.UploadsDir))

	service := app.New(cfg, contentStore, gate, uploads)

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Hearth API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
