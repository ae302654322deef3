package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL string
	ServerPort  int
	APIPrefix   string

	AuthUsername string
	AuthPassword string

	UploadDir     string
	PublicBaseURL string

	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string
	S3PublicBaseURL   string

	CORSAllowedOrigins []string

	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel  slog.Level
	LogFormat string
	LogFile   string
}

// S3Enabled сообщает, нужно ли хранить аватары в S3-совместимом бакете.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3AccessKeyID != "" && c.S3SecretAccessKey != ""
}

// AuthConfigured сообщает, заданы ли логин и пароль администратора.
func (c *Config) AuthConfigured() bool {
	return c.AuthUsername != "" && c.AuthPassword != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv собирает Config из функции поиска переменных, обычно os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	port, err := strconv.Atoi(get("SERVER_PORT", "3001"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	rps, err := strconv.ParseFloat(get("RATE_LIMIT_RPS", "0"), 64)
	if err != nil || rps < 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS environment variable: %q", getenv("RATE_LIMIT_RPS"))
	}
	burst, err := strconv.Atoi(get("RATE_LIMIT_BURST", "20"))
	if err != nil || burst <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST environment variable: %q", getenv("RATE_LIMIT_BURST"))
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
	}

	format := strings.ToLower(get("LOG_FORMAT", "json"))
	if format != "json" && format != "text" {
		return nil, fmt.Errorf("LOG_FORMAT must be json or text, got %q", format)
	}

	prefix := strings.TrimRight(get("API_PREFIX", ""), "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}

	origins := make([]string, 0)
	for _, o := range strings.Split(get("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	cfg := &Config{
		DatabaseURL:        get("DATABASE_URL", "chess_statistics.db"),
		ServerPort:         port,
		APIPrefix:          prefix,
		AuthUsername:       getenv("AUTH_USERNAME"),
		AuthPassword:       getenv("AUTH_PASSWORD"),
		UploadDir:          get("UPLOAD_DIR", "uploads"),
		PublicBaseURL:      strings.TrimRight(get("PUBLIC_BASE_URL", ""), "/"),
		S3Endpoint:         get("S3_ENDPOINT", ""),
		S3Region:           get("S3_REGION", "auto"),
		S3AccessKeyID:      get("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey:  get("S3_SECRET_ACCESS_KEY", ""),
		S3Bucket:           get("S3_BUCKET", ""),
		S3PublicBaseURL:    get("S3_PUBLIC_BASE_URL", ""),
		CORSAllowedOrigins: origins,
		RateLimitRPS:       rps,
		RateLimitBurst:     burst,
		LogLevel:           level,
		LogFormat:          format,
		LogFile:            get("LOG_FILE", ""),
	}

	return cfg, nil
}
