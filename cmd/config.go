package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"orderboard/internal/adapters/out/nats"
	"orderboard/internal/jobs"
	"orderboard/internal/pkg/errs"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort          string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSslMode         string
	NatsURL           string
	PrintSubject      string
	ReconcileSchedule string
	LogLevel          string
}

// LoadConfig reads the configuration from the environment. Values found in the
// optional env files are loaded first and never override variables already set.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	config := Config{
		HTTPPort:          envOr("HTTP_PORT", "8080"),
		DBHost:            envOr("DB_HOST", "localhost"),
		DBPort:            envOr("DB_PORT", "5432"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		DBSslMode:         envOr("DB_SSLMODE", "disable"),
		NatsURL:           os.Getenv("NATS_URL"),
		PrintSubject:      envOr("PRINT_SUBJECT_PREFIX", nats.DefaultSubjectPrefix),
		ReconcileSchedule: envOr("RECONCILE_SCHEDULE", jobs.DefaultReconciliationSchedule),
		LogLevel:          envOr("LOG_LEVEL", "info"),
	}
	return config, config.Validate()
}

// Validate checks the settings without which the service cannot start.
func (c Config) Validate() error {
	var err error
	if c.DBUser == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("DB_USER"))
	}
	if c.DBName == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("DB_NAME"))
	}
	return err
}

// DSN renders the postgres connection string shared by gorm and the change listener.
func (c Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   c.DBHost + ":" + c.DBPort,
		Path:   "/" + c.DBName,
	}
	q := u.Query()
	q.Set("sslmode", c.DBSslMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
