package user

import (
	"errors"
	"time"
)

type Config struct {
	SymmetricKey string        `env:"SYMMETRIC_KEY"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" env-default:"24h"`
	OTPTTL       time.Duration `env:"OTP_TTL" env-default:"15m"`
	OTPLength    int           `env:"OTP_LENGTH" env-default:"6"`
}

func (c *Config) Validate() error {
	if c.SymmetricKey == "" {
		return errors.New("symmetric key must be set")
	}
	if c.TokenTTL <= 0 {
		return errors.New("token TTL must be positive")
	}
	if c.OTPTTL <= 0 {
		return errors.New("OTP TTL must be positive")
	}
	if c.OTPLength < 4 || c.OTPLength > 10 {
		return errors.New("OTP length must be between 4 and 10")
	}
	return nil
}

func GetDefaultConfig() *Config {
	return &Config{
		SymmetricKey: "12345678901234567890123456789012",
		TokenTTL:     24 * time.Hour,
		OTPTTL:       15 * time.Minute,
		OTPLength:    6,
	}
}
