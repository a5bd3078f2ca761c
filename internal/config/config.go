// Package config loads server configuration from the environment.
// A .env file in the working directory is honored when present.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the server needs to start.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// DBPath is the SQLite database file path.
	DBPath string

	// JWTSecret signs anonymous session tokens. Required.
	JWTSecret string

	// SessionTTL is how long an anonymous session token stays valid.
	SessionTTL time.Duration

	// RedisAddr enables cross-instance snapshot invalidation when set.
	// Empty means single-instance mode (no Redis).
	RedisAddr string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// ClearArmTTL is how long an armed bulk clear stays confirmable.
	ClearArmTTL time.Duration
}

// Load reads configuration from BOARD_* environment variables,
// loading a .env file first if one exists.
func Load() (*Config, error) {
	// Missing .env is fine; real env vars still apply.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("BOARD")
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("db_path", "./data/board.db")
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("log_level", "info")
	v.SetDefault("clear_arm_ttl", "30s")

	cfg := &Config{
		Addr:        v.GetString("addr"),
		DBPath:      v.GetString("db_path"),
		JWTSecret:   v.GetString("jwt_secret"),
		SessionTTL:  v.GetDuration("session_ttl"),
		RedisAddr:   v.GetString("redis_addr"),
		LogLevel:    v.GetString("log_level"),
		ClearArmTTL: v.GetDuration("clear_arm_ttl"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("BOARD_JWT_SECRET is required")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("BOARD_SESSION_TTL must be positive")
	}
	if cfg.ClearArmTTL <= 0 {
		return nil, fmt.Errorf("BOARD_CLEAR_ARM_TTL must be positive")
	}

	return cfg, nil
}
