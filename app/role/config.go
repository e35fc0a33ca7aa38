package role

import (
	"errors"
	"time"
)

// Config holds the role module settings.
type Config struct {
	// PermissionCheckTimeout bounds a RequirePermissions evaluation; on
	// expiry the request is denied.
	PermissionCheckTimeout time.Duration `env:"PERMISSION_CHECK_TIMEOUT" env-default:"5s"`
	// PermissionCacheTTL bounds how long a resolved permission set may be
	// served from cache.
	PermissionCacheTTL time.Duration `env:"PERMISSION_CACHE_TTL" env-default:"5m"`
}

func (c *Config) Validate() error {
	if c.PermissionCheckTimeout <= 0 {
		return errors.New("permission check timeout must be positive")
	}
	if c.PermissionCacheTTL < 0 {
		return errors.New("permission cache ttl must not be negative")
	}
	return nil
}

func GetDefaultConfig() *Config {
	return &Config{
		PermissionCheckTimeout: 5 * time.Second,
		PermissionCacheTTL:     5 * time.Minute,
	}
}
