package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port           string  `env:"PORT,             default=8080"`
	Env            string  `env:"ENV,              default=development"`
	LogLevel       string  `env:"LOG_LEVEL,        default=info"`
	ExposeErrors   bool    `env:"EXPOSE_ERRORS,    default=false"`
	LoginRateLimit float64 `env:"LOGIN_RATE_LIMIT, default=0"`

	JWT     JWTConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	S3      S3Config
	Upload  UploadConfig
	Cleanup CleanupConfig
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET, required"`
	TTL    time.Duration `env:"JWT_TTL,    default=168h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=bookstore"`
}

// RedisConfig is optional: an empty Addr disables token revocation.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// S3Config is optional: an empty Bucket disables image uploads.
type S3Config struct {
	Bucket        string `env:"S3_BUCKET"`
	Region        string `env:"S3_REGION,         default=us-east-1"`
	Endpoint      string `env:"S3_ENDPOINT"`
	AccessKey     string `env:"S3_ACCESS_KEY"`
	SecretKey     string `env:"S3_SECRET_KEY"`
	UsePathStyle  bool   `env:"S3_USE_PATH_STYLE, default=false"`
	PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
	CreateBucket  bool   `env:"S3_CREATE_BUCKET,  default=false"`
}

type UploadConfig struct {
	MaxBytes int64 `env:"UPLOAD_MAX_BYTES, default=5242880"`
}

type CleanupConfig struct {
	Workers int `env:"CLEANUP_WORKERS, default=4"`
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return process(ctx, envconfig.OsLookuper())
}

func process(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Upload.MaxBytes <= 0 {
		return nil, errors.New("config: UPLOAD_MAX_BYTES must be positive")
	}
	return &cfg, nil
}
