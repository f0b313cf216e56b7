package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Host         string        `env:"HOST" env-default:"0.0.0.0"`
	Port         string        `env:"PORT" env-default:"8080"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" env-default:"60s"`
	Environment  string        `env:"ENVIRONMENT" env-default:"development"`
	// Comma-separated list of origins allowed by CORS.
	AllowedOrigins string `env:"ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
}

type DatabaseConfig struct {
	Host            string        `env:"DB_HOST" env-default:"localhost"`
	Port            string        `env:"DB_PORT" env-default:"5432"`
	User            string        `env:"DB_USER" env-default:"postgres"`
	Password        string        `env:"DB_PASSWORD" env-default:""`
	Name            string        `env:"DB_NAME" env-default:"task_tracker"`
	SSLMode         string        `env:"DB_SSL_MODE" env-default:"disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
}

type RedisConfig struct {
	// Enabled turns the task/stats read cache on. The service works without it.
	Enabled      bool          `env:"REDIS_ENABLED" env-default:"false"`
	Host         string        `env:"REDIS_HOST" env-default:"localhost"`
	Port         string        `env:"REDIS_PORT" env-default:"6379"`
	Password     string        `env:"REDIS_PASSWORD" env-default:""`
	DB           int           `env:"REDIS_DB" env-default:"0"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" env-default:"10"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" env-default:"3s"`
	CacheTTL     time.Duration `env:"REDIS_CACHE_TTL" env-default:"60s"`
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET" env-default:"dev-secret-change-me"`
	TokenTTL   time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"30m"`
	Issuer     string        `env:"JWT_ISSUER" env-default:"task-tracker"`
	BCryptCost int           `env:"BCRYPT_COST" env-default:"10"`
}

type RateLimitConfig struct {
	Enabled        bool          `env:"RATE_LIMIT_ENABLED" env-default:"true"`
	RequestsPerMin int           `env:"RATE_LIMIT_RPM" env-default:"120"`
	BurstSize      int           `env:"RATE_LIMIT_BURST" env-default:"20"`
	ClientTTL      time.Duration `env:"RATE_LIMIT_CLIENT_TTL" env-default:"10m"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if cfg.IsProduction() {
		if cfg.Database.Password == "" {
			return nil, fmt.Errorf("database password is required in production")
		}
		if cfg.Auth.JWTSecret == "dev-secret-change-me" {
			return nil, fmt.Errorf("JWT secret must be set in production")
		}
	}

	return &cfg, nil
}

func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

func (c *Config) Origins() []string {
	parts := strings.Split(c.Server.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
