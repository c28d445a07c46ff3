// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when neither a flag nor an environment variable is set.
const (
	DefaultPort                = 3318
	DefaultDatabaseType        = "sqlite"
	DefaultSiteURL             = "http://localhost:3000"
	DefaultKafkaTopic          = "feedback.completed"
	DefaultLogLevel            = "info"
	DefaultDispatchInterval    = 15 * time.Second
	DefaultDispatchMaxAttempts = 8
	DefaultSubmitRatePerMinute = 10
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// SiteURL is the frontend origin public feedback links are built on.
	SiteURL string

	// Notifications
	WebhookURL          string
	KafkaBrokers        []string
	KafkaTopic          string
	DispatchInterval    time.Duration
	DispatchMaxAttempts int

	RedisURL       string
	AllowedOrigins []string
	// TrustProxy honours X-Forwarded-For/X-Real-IP for client addresses.
	// Only enable behind a proxy that sets them.
	TrustProxy          bool
	LogLevel            string
	SubmitRatePerMinute int
}

// ParseFlags parses CLI flags and fills anything unset from the
// environment, then from defaults.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var brokers, origins string

	fs := flag.NewFlagSet("feedbackform", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.SiteURL, "site-url", "", "Public site URL used in feedback links")

	// Integrations
	fs.StringVar(&cfg.WebhookURL, "webhook-url", "", "Default completion webhook URL")
	fs.StringVar(&brokers, "kafka-brokers", "", "Comma-separated Kafka brokers")
	fs.StringVar(&cfg.KafkaTopic, "kafka-topic", "", "Kafka topic for completion events")
	fs.StringVar(&cfg.RedisURL, "redis-url", "", "Redis URL for the public form cache")
	fs.StringVar(&origins, "allowed-origins", "", "Comma-separated CORS origins")
	fs.BoolVar(&cfg.TrustProxy, "trust-proxy", false, "Trust X-Forwarded-For/X-Real-IP from a reverse proxy")

	// Tuning
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.DurationVar(&cfg.DispatchInterval, "dispatch-interval", 0, "Outbox poll interval")
	fs.IntVar(&cfg.DispatchMaxAttempts, "dispatch-max-attempts", 0, "Delivery attempts before an event is parked")
	fs.IntVar(&cfg.SubmitRatePerMinute, "submit-rate", 0, "Feedback submissions per minute per IP")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := envInt("PORT", DefaultPort)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	cfg.DatabaseType = orEnv(cfg.DatabaseType, "DATABASE_TYPE", DefaultDatabaseType)
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	cfg.SiteURL = strings.TrimRight(orEnv(cfg.SiteURL, "SITE_URL", DefaultSiteURL), "/")
	cfg.WebhookURL = orEnv(cfg.WebhookURL, "WEBHOOK_URL", "")
	cfg.KafkaBrokers = splitList(orEnv(brokers, "KAFKA_BROKERS", ""))
	cfg.KafkaTopic = orEnv(cfg.KafkaTopic, "KAFKA_TOPIC", DefaultKafkaTopic)
	cfg.RedisURL = orEnv(cfg.RedisURL, "REDIS_URL", "")
	cfg.AllowedOrigins = splitList(orEnv(origins, "ALLOWED_ORIGINS", ""))
	cfg.LogLevel = orEnv(cfg.LogLevel, "LOG_LEVEL", DefaultLogLevel)

	if !cfg.TrustProxy {
		if v := os.Getenv("TRUST_PROXY"); v != "" {
			trust, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, errors.New("invalid TRUST_PROXY env variable")
			}
			cfg.TrustProxy = trust
		}
	}

	if cfg.DispatchInterval == 0 {
		d := DefaultDispatchInterval
		if v := os.Getenv("DISPATCH_INTERVAL"); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, errors.New("invalid DISPATCH_INTERVAL env variable")
			}
			d = parsed
		}
		cfg.DispatchInterval = d
	}
	if cfg.DispatchMaxAttempts == 0 {
		n, err := envInt("DISPATCH_MAX_ATTEMPTS", DefaultDispatchMaxAttempts)
		if err != nil {
			return Config{}, err
		}
		cfg.DispatchMaxAttempts = n
	}
	if cfg.SubmitRatePerMinute == 0 {
		n, err := envInt("SUBMIT_RATE_PER_MIN", DefaultSubmitRatePerMinute)
		if err != nil {
			return Config{}, err
		}
		cfg.SubmitRatePerMinute = n
	}

	return cfg, nil
}

func orEnv(value, key, def string) string {
	if value != "" {
		return value
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
