package app

import (
	"time"

	"github.com/roosthq/roost/app/database"
	"github.com/roosthq/roost/app/role"
	"github.com/roosthq/roost/app/user"
	"github.com/roosthq/roost/internal/nexus"
)

type Config struct {
	DB   database.Config
	User user.Config
	Role role.Config

	AppHost string `env:"APP_HOST" env-default:"localhost"`
	AppPort string `env:"APP_PORT" env-default:"8080"`
	Env     string `env:"APP_ENV" env-default:"development"`

	// CacheBackend selects the permission cache backing store. Anything
	// other than "redis" falls back to the in-process memory cache.
	CacheBackend  string `env:"CACHE_BACKEND" env-default:"memory"`
	RedisAddr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`

	// Credentialed auth endpoints share one window; OTP code endpoints get
	// a tighter one because codes are guessable.
	AuthRateLimit  int           `env:"AUTH_RATE_LIMIT" env-default:"5"`
	AuthRateWindow time.Duration `env:"AUTH_RATE_WINDOW" env-default:"15m"`
	OTPRateLimit   int           `env:"OTP_RATE_LIMIT" env-default:"3"`
	OTPRateWindow  time.Duration `env:"OTP_RATE_WINDOW" env-default:"5m"`
}

// LoadConfig loads the application configuration from environment variables or a config file.
func LoadConfig() (*Config, error) {
	c := &Config{}
	err := nexus.NewLoader().Load(c)
	return c, err
}

// Validate checks the loaded configuration section by section.
func (c *Config) Validate() error {
	if err := c.DB.Validate(); err != nil {
		return err
	}
	if err := c.User.Validate(); err != nil {
		return err
	}
	return c.Role.Validate()
}
