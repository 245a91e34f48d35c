package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const megabyte = 1024 * 1024

type Config struct {
	Env  string
	Port string

	MongoURI     string
	MongoDB      string
	StoreBackend string // mongo | memory

	CacheBackend  string // memory | redis
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string

	CloudinaryURL    string
	UploadPreset     string
	UploadRootFolder string

	ImageMaxBytes          int64
	ImageWarnBytes         int64
	VideoMaxBytes          int64
	CompressThresholdBytes int64
	CompressTargetBytes    int64
	CompressMaxAttempts    int
	CompressMaxPixels      int64

	AdminUsername string
	AdminPassword string
	JWTSecret     string
	TokenTTL      time.Duration

	CORSOrigins []string
}

func LoadConfig() *Config {
	// .env only exists on developer machines; deployments use the real environment.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Error loading .env file:", err)
		} else {
			log.Println("✅ .env file loaded successfully")
		}
	} else {
		log.Println("🌐 Using system environment variables")
	}

	return &Config{
		Env:  getEnv("ENV", "dev"),
		Port: getEnv("PORT", "8080"),

		MongoURI:     getEnv("MONGO_URI", ""),
		MongoDB:      getEnv("MONGO_DB", "oilsAdmin"),
		StoreBackend: getEnv("STORE_BACKEND", "mongo"),

		CacheBackend:  getEnv("CACHE_BACKEND", "memory"),
		CacheTTL:      getEnvDuration("CACHE_TTL", 2*time.Minute),
		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		CloudinaryURL:    getEnv("CLOUDINARY_URL", ""),
		UploadPreset:     getEnv("CLOUDINARY_UPLOAD_PRESET", ""),
		UploadRootFolder: getEnv("UPLOAD_ROOT_FOLDER", "dev-admin"),

		ImageMaxBytes:          getEnvInt64("IMAGE_MAX_BYTES", 50*megabyte),
		ImageWarnBytes:         getEnvInt64("IMAGE_WARN_BYTES", 10*megabyte),
		VideoMaxBytes:          getEnvInt64("VIDEO_MAX_BYTES", 100*megabyte),
		CompressThresholdBytes: getEnvInt64("IMAGE_COMPRESS_THRESHOLD_BYTES", 5*megabyte),
		CompressTargetBytes:    getEnvInt64("IMAGE_TARGET_BYTES", 8*megabyte),
		CompressMaxAttempts:    int(getEnvInt64("IMAGE_MAX_ATTEMPTS", 8)),
		CompressMaxPixels:      getEnvInt64("IMAGE_MAX_PIXELS", 50_000_000),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin@gmail.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenTTL:      getEnvDuration("TOKEN_TTL", 12*time.Hour),

		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
	}
}

// IsDev reports whether the service runs with development defaults.
func (c *Config) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "dev")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		log.Printf("⚠️ invalid %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("⚠️ invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func getEnvList(key string, fallback []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
