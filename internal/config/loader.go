package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("approve_future", false)
	v.SetDefault("interval", "")
	v.SetDefault("http_port", 8080)

	// 2. Configure config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	// GYRO_RPC_URL -> rpc_url
	v.SetEnvPrefix("GYRO")
	v.AutomaticEnv()

	v.BindEnv("rpc_url", "GYRO_RPC_URL")
	v.BindEnv("private_key", "GYRO_PRIVATE_KEY")
	v.BindEnv("approve_future", "GYRO_APPROVE_FUTURE")
	v.BindEnv("interval", "GYRO_INTERVAL")
	v.BindEnv("log_level", "GYRO_LOG_LEVEL")
	v.BindEnv("http_port", "GYRO_HTTP_PORT")

	// 4. Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// 5. Unmarshal into struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate with validator
	validate := NewValidator()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadWithDatabase loads config plus the DATABASE_URL required by
// snapshot-persisting commands (watch, migrate).
func LoadWithDatabase(configPath string) (*Config, string, error) {
	cfg, err := Load(configPath)
	if err != nil {
		return nil, "", err
	}

	v := viper.New()
	v.BindEnv("database_url", "DATABASE_URL")
	databaseURL := v.GetString("database_url")

	if databaseURL == "" {
		return nil, "", fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, databaseURL, nil
}
