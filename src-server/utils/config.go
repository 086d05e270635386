package utils

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	port string
	dev  bool

	databaseDriver string
	databaseDSN    string

	hashidSalt      string
	hashidMinLength int

	guestSessionMaxAge          time.Duration
	guestSessionCleanupInterval time.Duration

	metricCollectionInterval time.Duration
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),
		dev: func() bool {
			dev := os.Getenv("DEV")
			if dev == "" {
				return false
			}
			isDev, err := strconv.ParseBool(dev)
			if err != nil {
				slog.Error("invalid DEV", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "DEV", isDev)
			return isDev
		}(),

		databaseDriver: func() string {
			driver := os.Getenv("DATABASE_DRIVER")
			switch driver {
			case "":
				driver = "sqlite"
			case "sqlite", "postgres":
			default:
				slog.Error("DATABASE_DRIVER must be sqlite or postgres", "DATABASE_DRIVER", driver)
				os.Exit(1)
			}
			slog.Debug("env", "DATABASE_DRIVER", driver)
			return driver
		}(),
		databaseDSN: func() string {
			dsn := os.Getenv("DATABASE_DSN")
			if dsn == "" {
				slog.Warn("DATABASE_DSN is not set, using ./guestlist.db")
				dsn = "./guestlist.db?mode=rwc"
			}
			return dsn
		}(),

		hashidSalt: func() string {
			salt := os.Getenv("HASHID_SALT")
			if salt == "" {
				slog.Warn("HASHID_SALT is not set, public ids are predictable")
				salt = "guestlist"
			}
			return salt
		}(),
		hashidMinLength: func() int {
			minLength := os.Getenv("HASHID_MIN_LENGTH")
			if minLength == "" {
				return 6
			}
			n, err := strconv.Atoi(minLength)
			if err != nil || n < 0 {
				slog.Error("invalid HASHID_MIN_LENGTH", "HASHID_MIN_LENGTH", minLength, "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "HASHID_MIN_LENGTH", n)
			return n
		}(),

		guestSessionMaxAge: func() time.Duration {
			maxAge := os.Getenv("GUEST_SESSION_MAX_AGE")
			if maxAge == "" {
				maxAge = "720h" // 30 days
			}
			duration, err := time.ParseDuration(maxAge)
			if err != nil {
				slog.Error("invalid GUEST_SESSION_MAX_AGE", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "GUEST_SESSION_MAX_AGE", maxAge, "duration", duration)
			return duration
		}(),

		guestSessionCleanupInterval: func() time.Duration {
			interval := os.Getenv("GUEST_SESSION_CLEANUP_INTERVAL")
			if interval == "" {
				interval = "1h"
			}
			duration, err := time.ParseDuration(interval)
			if err != nil || duration <= 0 {
				slog.Error("invalid GUEST_SESSION_CLEANUP_INTERVAL", "GUEST_SESSION_CLEANUP_INTERVAL", interval, "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "GUEST_SESSION_CLEANUP_INTERVAL", duration)
			return duration
		}(),

		metricCollectionInterval: func() time.Duration {
			interval := os.Getenv("METRIC_COLLECTION_INTERVAL")
			if interval == "" {
				interval = "15s"
			}
			duration, err := time.ParseDuration(interval)
			if err != nil || duration <= 0 {
				slog.Error("invalid METRIC_COLLECTION_INTERVAL", "METRIC_COLLECTION_INTERVAL", interval, "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "METRIC_COLLECTION_INTERVAL", duration)
			return duration
		}(),
	}
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get DEV env
func (c *Config) GetDev() bool {
	return c.dev
}

// Get DATABASE_DRIVER env, sqlite or postgres
func (c *Config) GetDatabaseDriver() string {
	return c.databaseDriver
}

// Get DATABASE_DSN env
func (c *Config) GetDatabaseDSN() string {
	return c.databaseDSN
}

// Get HASHID_SALT env
func (c *Config) GetHashidSalt() string {
	return c.hashidSalt
}

// Get HASHID_MIN_LENGTH env, default to 6
func (c *Config) GetHashidMinLength() int {
	return c.hashidMinLength
}

// Get GUEST_SESSION_MAX_AGE env, default to 30 days
func (c *Config) GetGuestSessionMaxAge() time.Duration {
	return c.guestSessionMaxAge
}

// Get GUEST_SESSION_CLEANUP_INTERVAL env, default to 1h
func (c *Config) GetGuestSessionCleanupInterval() time.Duration {
	return c.guestSessionCleanupInterval
}

// Get METRIC_COLLECTION_INTERVAL env, default to 15s
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}
