package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment  string   `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel     string   `env:"LOG_LEVEL" envDefault:"info"`
	ServerPort   string   `env:"SERVER_PORT" envDefault:"8080"`
	CORSOrigins  []string `env:"CORS_ORIGINS" envSeparator:","`
	CookieSecure bool     `env:"COOKIE_SECURE" envDefault:"false"`
	DatabaseURL  string   `env:"DATABASE_URL,required,notEmpty"`
	RedisURL     string   `env:"REDIS_URL,required,notEmpty"`
	BcryptCost   int      `env:"BCRYPT_COST" envDefault:"12"`

	JWT     JWT     `envPrefix:"JWT_"`
	Upload  Upload  `envPrefix:"UPLOAD_"`
	Storage Storage `envPrefix:"MINIO_"`
	Scanner Scanner `envPrefix:"CLAMD_"`
}

// JWT holds signing parameters for access and refresh tokens.
type JWT struct {
	Secret     string        `env:"SECRET"`
	AccessTTL  time.Duration `env:"ACCESS_TTL" envDefault:"30m"`
	RefreshTTL time.Duration `env:"REFRESH_TTL" envDefault:"168h"`
}

// Upload holds the limits applied to incoming images.
type Upload struct {
	MaxSize      int64    `env:"MAX_SIZE" envDefault:"5242880"`
	AllowedMIMEs []string `env:"ALLOWED_MIMES" envSeparator:"," envDefault:"image/jpeg,image/png"`
	MaxPixels    int      `env:"MAX_PIXELS" envDefault:"40000000"`
}

// Storage holds object storage parameters.
type Storage struct {
	Endpoint      string        `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey     string        `env:"ACCESS_KEY"`
	SecretKey     string        `env:"SECRET_KEY"`
	UseSSL        bool          `env:"USE_SSL" envDefault:"false"`
	ProfileBucket string        `env:"PROFILE_BUCKET" envDefault:"profile"`
	PublicURL     string        `env:"PUBLIC_URL"`
	PresignExpiry time.Duration `env:"PRESIGN_EXPIRY" envDefault:"1h"`
}

// Scanner holds the clamd connection parameters.
type Scanner struct {
	Address string        `env:"ADDRESS" envDefault:"tcp://localhost:3310"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("JWT_ACCESS_TTL and JWT_REFRESH_TTL must be positive")
	}
	if c.Upload.MaxSize <= 0 {
		return errors.New("UPLOAD_MAX_SIZE must be positive")
	}
	if len(c.Upload.AllowedMIMEs) == 0 {
		return errors.New("UPLOAD_ALLOWED_MIMES must not be empty")
	}
	if c.Storage.PublicURL != "" {
		u, err := url.Parse(c.Storage.PublicURL)
		if err != nil || u.Host == "" {
			return fmt.Errorf("invalid MINIO_PUBLIC_URL %q", c.Storage.PublicURL)
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
