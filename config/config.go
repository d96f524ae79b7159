package config

import (
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const Production = "production"

// Config is everything the server reads from the environment.
type Config struct {
	Port        string   `env:"PORT" envDefault:"8080"`
	Environment string   `env:"GO_ENV" envDefault:"development"`
	Domain      string   `env:"DOMAIN"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`

	MongoURI      string `env:"MONGODB_URI"`
	MongoDatabase string `env:"MONGODB_DB" envDefault:"report2resolve"`

	RedisAddress  string `env:"REDIS_ADDRESS"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisPrefix   string `env:"REDIS_QUEUE_FOR_ISSUE_LIMIT" envDefault:"issue-limit"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"72h"`

	AdminName     string `env:"ADMIN_NAME" envDefault:"Administrator"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	IssueDailyLimit int           `env:"ISSUE_DAILY_LIMIT" envDefault:"20"`
	StatusCacheTTL  time.Duration `env:"STATUS_CACHE_TTL" envDefault:"10m"`
}

// IsProduction reports whether cookies must be Secure.
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// Validate checks settings that have no safe default.
func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return errors.New("please define the MONGODB_URI environment variable")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is not set")
	}
	if c.IssueDailyLimit < 1 {
		return errors.Errorf("ISSUE_DAILY_LIMIT must be positive, got %d", c.IssueDailyLimit)
	}
	if c.TokenTTL <= 0 {
		return errors.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}

// Load reads the given .env files if present, then the environment.
func Load(envFiles ...string) (*Config, error) {
	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		logrus.Info("No .env file found")
	} else if err := godotenv.Load(existing...); err != nil {
		return nil, errors.Wrap(err, "load .env")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigureLogger applies the configured level and format to logrus.
func ConfigureLogger(cfg *Config) {
	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
