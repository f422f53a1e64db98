package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"atelier/internal/adapters/out/notify"
	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/jobs"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	StoreTimeout    time.Duration
	StoreMaxRetries uint64
	ClaimMaxRetries int

	RedisAddr           string
	NotifyChannelPrefix string

	LogLevel         slog.Level
	ReportSchedule   string
	FeedPingSchedule string
}

// LoadConfig reads envFile into the process environment when it exists and builds the
// configuration from the environment. Variables already set take precedence over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		HTTPPort:            env("HTTP_PORT", "8080"),
		DBHost:              env("DB_HOST", "localhost"),
		DBPort:              env("DB_PORT", "5432"),
		DBUser:              env("DB_USER", "postgres"),
		DBPassword:          getenv("DB_PASSWORD"),
		DBName:              env("DB_NAME", "atelier"),
		DBSslMode:           env("DB_SSLMODE", "disable"),
		RedisAddr:           env("REDIS_ADDR", ""),
		NotifyChannelPrefix: env("NOTIFY_CHANNEL_PREFIX", notify.DefaultChannelPrefix),
		ReportSchedule:      env("REPORT_SCHEDULE", jobs.DefaultReportSchedule),
		FeedPingSchedule:    env("FEED_PING_SCHEDULE", jobs.DefaultFeedPingSchedule),
	}

	var err error
	if cfg.StoreTimeout, err = time.ParseDuration(env("STORE_TIMEOUT", "5s")); err != nil || cfg.StoreTimeout <= 0 {
		return Config{}, fmt.Errorf("STORE_TIMEOUT: %q is not a positive duration", getenv("STORE_TIMEOUT"))
	}
	if cfg.StoreMaxRetries, err = strconv.ParseUint(env("STORE_MAX_RETRIES", "3"), 10, 32); err != nil {
		return Config{}, fmt.Errorf("STORE_MAX_RETRIES: %w", err)
	}
	claims, err := strconv.Atoi(env("CLAIM_MAX_RETRIES", strconv.Itoa(commands.DefaultClaimRetries)))
	if err != nil || claims < 0 {
		return Config{}, fmt.Errorf("CLAIM_MAX_RETRIES: %q is not a non-negative integer", getenv("CLAIM_MAX_RETRIES"))
	}
	cfg.ClaimMaxRetries = claims
	if err = cfg.LogLevel.UnmarshalText([]byte(env("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

// DSN is the postgres connection string for gorm and the change feed listener.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%v port=%v user=%v password=%v dbname=%v sslmode=%v",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
