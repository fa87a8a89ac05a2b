package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV"       envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT"      envDefault:"8080"  validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"  validate:"oneof=debug info warn error"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	APIPrefix   string `env:"API_PREFIX"   envDefault:"/api/v1" validate:"startswith=/"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"postgres" validate:"oneof=postgres sqlite"`
	DatabaseURL    string `env:"DATABASE_URL,required"                validate:"required"`

	JWTAccessSecret           string `env:"JWT_ACCESS_SECRET,required"  validate:"required,min=32"`
	JWTRefreshSecret          string `env:"JWT_REFRESH_SECRET,required" validate:"required,min=32,nefield=JWTAccessSecret"`
	JWTAlgorithm              string `env:"JWT_ALGORITHM"                envDefault:"HS256" validate:"oneof=HS256 HS384 HS512"`
	AccessTokenExpireMinutes  int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES"  envDefault:"60"    validate:"min=1"`
	RefreshTokenExpireMinutes int    `env:"REFRESH_TOKEN_EXPIRE_MINUTES" envDefault:"2880"  validate:"gtfield=AccessTokenExpireMinutes"`

	PasswordHasher string `env:"PASSWORD_HASHER" envDefault:"bcrypt" validate:"oneof=bcrypt argon2id"`
	BcryptCost     int    `env:"BCRYPT_COST"     envDefault:"12"     validate:"min=4,max=31"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpireMinutes) * time.Minute
}
