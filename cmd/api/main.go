package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"oils-admin/internal/auth"
	"oils-admin/internal/cache"
	"oils-admin/internal/config"
	"oils-admin/internal/database"
	"oils-admin/internal/media"
	"oils-admin/internal/routes"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

// run returns instead of exiting so deferred disconnects always happen.
func run() error {
	cfg := config.LoadConfig()
	ctx := context.Background()

	var db *mongo.Database
	switch cfg.StoreBackend {
	case "memory":
		log.Println("🧪 Using in-memory document store")
	default:
		client, err := database.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return fmt.Errorf("MongoDB connection failed: %w", err)
		}
		defer func() {
			_ = client.Disconnect(context.Background())
		}()
		db = client.Database(cfg.MongoDB)
	}

	var store cache.Store
	switch cfg.CacheBackend {
	case "redis":
		rdb, err := cache.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return fmt.Errorf("Redis connection failed: %w", err)
		}
		defer rdb.Close()
		log.Println("✅ Redis connected")
		store = cache.NewRedis(rdb, "oils-admin:"+cfg.Env, cfg.CacheTTL)
	default:
		mem := cache.NewMemory(cfg.CacheTTL, 5*time.Minute)
		defer mem.Close()
		store = mem
	}

	var host media.Host
	if cld, err := media.NewCloudinary(cfg.CloudinaryURL, cfg.UploadPreset); err != nil {
		log.Printf("⚠️ uploads disabled: %v", err)
	} else {
		host = cld
	}
	uploads := media.NewService(
		host,
		media.NewCompressor(media.NewPolicy(cfg.CompressThresholdBytes, cfg.CompressTargetBytes, cfg.CompressMaxAttempts, cfg.CompressMaxPixels)),
		media.Limits{ImageMaxBytes: cfg.ImageMaxBytes, ImageWarnBytes: cfg.ImageWarnBytes, VideoMaxBytes: cfg.VideoMaxBytes},
		cfg.UploadRootFolder,
	)

	secret := cfg.JWTSecret
	if secret == "" {
		if !cfg.IsDev() {
			return errors.New("JWT_SECRET is required outside dev")
		}
		var err error
		if secret, err = randomSecret(); err != nil {
			return err
		}
		log.Println("⚠️ JWT_SECRET not set, tokens will not survive a restart")
	}
	issuer, err := auth.NewIssuer(secret, cfg.TokenTTL)
	if err != nil {
		return err
	}
	if cfg.AdminPassword == "" {
		log.Println("⚠️ ADMIN_PASSWORD not set, login is disabled")
	}

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	err = routes.RegisterRoutes(router, routes.Deps{
		DB:             db,
		Cache:          store,
		CacheTTL:       cfg.CacheTTL,
		Media:          uploads,
		UploadMaxBytes: max(cfg.ImageMaxBytes, cfg.VideoMaxBytes),
		Issuer:         issuer,
		Credentials:    auth.Credentials{Username: cfg.AdminUsername, Password: cfg.AdminPassword},
		CORSOrigins:    cfg.CORSOrigins,
	})
	if err != nil {
		return fmt.Errorf("route setup failed: %w", err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Println("🚀 Server running on port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	return waitForShutdown(server, serveErr, sigCh)
}

// waitForShutdown blocks until a signal arrives or the listener fails, then
// drains the server.
func waitForShutdown(server *http.Server, serveErr <-chan error, sigCh <-chan os.Signal) error {
	var cause error
	select {
	case <-sigCh:
		log.Println("🛑 shutdown signal received")
	case err := <-serveErr:
		cause = fmt.Errorf("server error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️ shutdown: %v", err)
	}
	log.Println("👋 shutdown complete")
	return cause
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("could not generate JWT secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
