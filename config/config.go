package config

import (
	"errors"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvProduction Environment = "production"
)

type Config struct {
	App struct {
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"UTC"`
		Port     string      `env:"PORT" envDefault:"8000"`
		LogLevel string      `env:"LOG_LEVEL" envDefault:"info"`
		Currency string      `env:"CURRENCY" envDefault:"EUR"`
	}

	Database struct {
		URL string `env:"DATABASE_URL"`
	}

	Redis struct {
		Addr          string        `env:"REDIS_ADDR"`
		Password      string        `env:"REDIS_PASSWORD"`
		DoctorListTTL time.Duration `env:"DOCTOR_LIST_TTL" envDefault:"60s"`
	}

	Auth struct {
		JWTSecret     string        `env:"JWT_SECRET"`
		TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
		AdminEmail    string        `env:"ADMIN_EMAIL"`
		AdminPassword string        `env:"ADMIN_PASSWORD"`
	}

	Cloudinary struct {
		CloudName    string `env:"CLOUDINARY_CLOUD_NAME"`
		APIKey       string `env:"CLOUDINARY_API_KEY"`
		APISecret    string `env:"CLOUDINARY_API_SECRET"`
		UploadPreset string `env:"CLOUDINARY_UPLOAD_PRESET"`
	}

	Cron struct {
		SlotPruneSchedule string `env:"SLOT_PRUNE_SCHEDULE" envDefault:"0 3 * * *"`
	}
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	// A missing .env is fine, the variables may come from the real environment.
	_ = godotenv.Load()
	return Parse()
}

// Parse builds a Config from the current process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	if cfg.Database.URL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	if err := cfg.checkJWTSecret(); err != nil {
		return nil, err
	}
	if _, err := time.LoadLocation(cfg.App.Timezone); err != nil {
		return nil, errors.New("APP_TIMEZONE is not a valid IANA zone: " + cfg.App.Timezone)
	}

	return cfg, nil
}

// localJWTSecret signs tokens on developer machines only.
const localJWTSecret = "solid_secret_key"

func (c *Config) checkJWTSecret() error {
	if c.IsLocal() {
		if c.Auth.JWTSecret == "" {
			c.Auth.JWTSecret = localJWTSecret
		}
		return nil
	}
	if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == localJWTSecret {
		return errors.New("JWT_SECRET must be set outside the local environment")
	}
	return nil
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

// Location returns the configured time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CloudinaryEnabled reports whether image uploads can be sent to Cloudinary.
func (c *Config) CloudinaryEnabled() bool {
	return c.Cloudinary.CloudName != "" && c.Cloudinary.APIKey != "" && c.Cloudinary.APISecret != ""
}
