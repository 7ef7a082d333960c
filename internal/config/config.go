// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Store drivers understood by STORE_DRIVER.
const (
	DriverMemory = "memory"
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
	DriverBadger = "badger"
)

// maxBreakMin is one day.
const maxBreakMin = 24 * 60

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env      string `env:"APP_ENV,default=dev"`
	Port     string `env:"APP_PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`
	Driver   string `env:"STORE_DRIVER,default=memory"`

	// MySQL coordinates, used with STORE_DRIVER=mysql. DB_PASS may be empty.
	DBUser string `env:"DB_USER"`
	DBPass string `env:"DB_PASS"`
	DBHost string `env:"DB_HOST,default=127.0.0.1"`
	DBPort string `env:"DB_PORT,default=3306"`
	DBName string `env:"DB_NAME"`

	SQLitePath string `env:"SQLITE_PATH,default=backoffice.db"`
	BadgerPath string `env:"BADGER_PATH,default=data/badger"`

	// Session tickets and password hashing.
	JWTSecret    string `env:"JWT_SECRET"`
	AccessTTLMin int    `env:"ACCESS_TOKEN_TTL_MIN,default=60"`
	BcryptCost   int    `env:"BCRYPT_COST,default=10"`

	// Changeover time a room needs after every screening.
	BreakMin int `env:"SCREENING_BREAK_MIN,default=10"`

	// Administrator account seeded on start.
	AdminUsername string `env:"ADMIN_USERNAME,default=admin"`
	AdminPassword string `env:"ADMIN_PASSWORD,default=admin"`

	// Empty RABBITMQ_URL disables screening events.
	RabbitMQURL string `env:"RABBITMQ_URL"`
	EventLogDir string `env:"EVENT_LOG_DIR,default=logs"`
}

// Load merges an optional .env file into the environment and decodes it.
// Variables already set in the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	cfg.Driver = strings.ToLower(cfg.Driver)
	return cfg, nil
}

// Validate checks the combinations Load cannot express with tags.  The HTTP
// server additionally needs a ticket secret.
func (c Config) Validate(serving bool) error {
	var errs []error
	switch c.Driver {
	case DriverMemory, DriverSQLite, DriverBadger:
	case DriverMySQL:
		if c.DBUser == "" || c.DBName == "" {
			errs = append(errs, errors.New("STORE_DRIVER=mysql needs DB_USER and DB_NAME"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Driver))
	}
	if serving && c.JWTSecret == "" {
		errs = append(errs, errors.New("missing required env var: JWT_SECRET"))
	}
	if c.AccessTTLMin <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL_MIN must be positive"))
	}
	if c.BreakMin < 0 || c.BreakMin > maxBreakMin {
		errs = append(errs, fmt.Errorf("SCREENING_BREAK_MIN must be between 0 and %d", maxBreakMin))
	}
	if c.AdminUsername == "" || c.AdminPassword == "" {
		errs = append(errs, errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must not be empty"))
	}
	return errors.Join(errs...)
}
