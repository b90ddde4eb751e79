package config

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config represents the application configuration
type Config struct {
	RPCUrl        string `mapstructure:"rpc_url" validate:"required,url"`
	PrivateKey    string `mapstructure:"private_key" validate:"omitempty,eth_privkey"`
	ApproveFuture bool   `mapstructure:"approve_future"`
	Interval      string `mapstructure:"interval" validate:"omitempty,duration"`
	LogLevel      string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	HTTPPort      int    `mapstructure:"http_port" validate:"omitempty,min=1024,max=65535"`
}

var privKeyPattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// ethPrivateKeyValidator validates hex-encoded secp256k1 private keys
func ethPrivateKeyValidator(fl validator.FieldLevel) bool {
	key := strings.TrimPrefix(fl.Field().String(), "0x")
	return privKeyPattern.MatchString(key)
}

// durationValidator validates duration strings
func durationValidator(fl validator.FieldLevel) bool {
	if fl.Field().String() == "" {
		return true // empty falls back to the default interval
	}
	_, err := time.ParseDuration(fl.Field().String())
	return err == nil
}

// NewValidator creates a validator with custom validation rules
func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterValidation("eth_privkey", ethPrivateKeyValidator)
	validate.RegisterValidation("duration", durationValidator)
	return validate
}

// WatchInterval returns the parsed watch interval, defaulting to 5 minutes
// when unset or unparseable (the validator rejects unparseable values
// earlier, so the fallback only covers the unset case in practice).
func (c *Config) WatchInterval() time.Duration {
	if c.Interval == "" {
		return 5 * time.Minute
	}
	d, err := time.ParseDuration(c.Interval)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}
