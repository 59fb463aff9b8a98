package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Logical service names used for discovery and logging.
const (
	CatalogServiceName    = "catalog-service"
	EnrollmentServiceName = "enrollment-service"
)

// Config holds the configuration shared by both services. Fields that only
// one service reads are ignored by the other.
type Config struct {
	ServiceName string `env:"SERVICE_NAME"`
	Port        string `env:"PORT"`
	InstanceID  string `env:"INSTANCE_ID"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`

	// RedisAddr enables the Redis service registry when set.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// AdvertiseURL is the base URL a catalog instance registers under.
	AdvertiseURL    string        `env:"ADVERTISE_URL"`
	RegistrationTTL time.Duration `env:"REGISTRATION_TTL" envDefault:"15s"`

	CatalogURLs    []string      `env:"CATALOG_URLS" envSeparator:","`
	CatalogTimeout time.Duration `env:"CATALOG_TIMEOUT" envDefault:"5s"`

	// ReconcileSchedule is a cron spec; empty disables reconciliation.
	ReconcileSchedule string `env:"RECONCILE_SCHEDULE"`
}

// Load reads an optional .env file and then the process environment.
func Load(serviceName, defaultPort string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg := &Config{
		ServiceName: serviceName,
		Port:        defaultPort,
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DBName == "" {
		cfg.DBName = serviceName + ".db"
	}
	if cfg.InstanceID == "" {
		cfg.InstanceID = serviceName + "-" + cfg.Port
	}
	if cfg.AdvertiseURL == "" {
		cfg.AdvertiseURL = "http://localhost:" + cfg.Port
	}
	if cfg.ServiceName == EnrollmentServiceName && cfg.RedisAddr == "" && len(cfg.CatalogURLs) == 0 {
		cfg.CatalogURLs = []string{"http://localhost:8081"}
	}

	switch cfg.DBDriver {
	case "sqlite", "postgres", "mysql":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.CatalogTimeout <= 0 {
		return nil, fmt.Errorf("CATALOG_TIMEOUT must be positive")
	}
	if cfg.RegistrationTTL < time.Second {
		return nil, fmt.Errorf("REGISTRATION_TTL must be at least 1s")
	}

	return cfg, nil
}
