package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	News     NewsConfig
	Feed     FeedConfig
}

type AppConfig struct {
	Name        string `env:"APP_NAME" envDefault:"swipeNews API"`
	Version     string `env:"APP_VERSION" envDefault:"1.0.0"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	// Seed fixes the bandit sampler; 0 seeds from the clock.
	Seed int64 `env:"APP_RANDOM_SEED" envDefault:"0"`
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" envDefault:"swipe_news"`
	SSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`
}

// JWTConfig enables bearer auth on the per-user routes when SecretKey is set.
type JWTConfig struct {
	SecretKey string `env:"JWT_SECRET"`
}

type RedisConfig struct {
	Enabled       bool          `env:"REDIS_ENABLED" envDefault:"false"`
	RedisHost     string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     string        `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	LockTTL       time.Duration `env:"REDIS_LOCK_TTL" envDefault:"30s"`
	LockWait      time.Duration `env:"REDIS_LOCK_WAIT" envDefault:"10s"`
}

type NewsConfig struct {
	BaseURL        string        `env:"NEWS_BASE_URL" envDefault:"https://newsapi.org/v2"`
	APIKey         string        `env:"NEWS_API_KEY"`
	DefaultCountry string        `env:"NEWS_COUNTRY_DEFAULT" envDefault:"us"`
	Timeout        time.Duration `env:"NEWS_TIMEOUT" envDefault:"10s"`
	RatePerSecond  float64       `env:"NEWS_RATE_PER_SECOND" envDefault:"5"`
	Burst          int           `env:"NEWS_RATE_BURST" envDefault:"10"`
	CacheTTL       time.Duration `env:"NEWS_CACHE_TTL" envDefault:"5m"`
}

type FeedConfig struct {
	SeenCap     int `env:"FEED_SEEN_CAP" envDefault:"200"`
	MaxPages    int `env:"FEED_MAX_PAGES" envDefault:"10"`
	PageCeiling int `env:"FEED_PAGE_CEILING" envDefault:"50"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.News.APIKey == "" {
		return nil, errors.New("missing news api key")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Feed.SeenCap < 1 {
		return nil, fmt.Errorf("FEED_SEEN_CAP must be positive, got %d", cfg.Feed.SeenCap)
	}

	return cfg, nil
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}
