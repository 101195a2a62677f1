package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Storage Storage `envPrefix:"STORAGE_"`
	Session Session `envPrefix:"SESSION_"`
	Backup  Backup  `envPrefix:"BACKUP_"`
	AMQP    AMQP    `envPrefix:"AMQP_"`
}

// Storage selects the key-value backend.
type Storage struct {
	Backend    string `env:"BACKEND" envDefault:"sqlite"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"./data/jibajeti.db"`
	FilePath   string `env:"FILE_PATH" envDefault:"./data/jibajeti.json"`
}

type Session struct {
	InsightsDelay time.Duration `env:"INSIGHTS_DELAY" envDefault:"2s"`
}

// Backup controls scheduled export snapshots.
type Backup struct {
	Dir      string `env:"DIR" envDefault:"./data/backups"`
	Schedule string `env:"SCHEDULE" envDefault:"@every 1h"`
}

// AMQP configures the optional change feed. An empty URL disables it.
type AMQP struct {
	URL      string `env:"URL"`
	Exchange string `env:"EXCHANGE" envDefault:"jibajeti"`
	Queue    string `env:"QUEUE" envDefault:"state_changes"`
}

// Enabled reports whether a broker is configured.
func (a AMQP) Enabled() bool { return a.URL != "" }

var (
	validBackends  = []string{"sqlite", "file", "memory"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}

	if !slices.Contains(validBackends, c.Storage.Backend) {
		errors = append(errors, fmt.Sprintf("invalid storage backend '%s': must be one of %v", c.Storage.Backend, validBackends))
	}

	switch c.Storage.Backend {
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if msg := ensureDir(c.Storage.SQLitePath); msg != "" {
			errors = append(errors, msg)
		}
	case "file":
		if c.Storage.FilePath == "" {
			errors = append(errors, "storage file path cannot be empty when using file backend")
		} else if msg := ensureDir(c.Storage.FilePath); msg != "" {
			errors = append(errors, msg)
		}
	}

	if c.Session.InsightsDelay <= 0 {
		errors = append(errors, fmt.Sprintf("invalid insights delay %v: must be positive", c.Session.InsightsDelay))
	} else if c.Session.InsightsDelay > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid insights delay %v: must be at most 1 minute", c.Session.InsightsDelay))
	}

	if c.Backup.Dir == "" {
		errors = append(errors, "backup directory cannot be empty")
	}
	if _, err := cron.ParseStandard(c.Backup.Schedule); err != nil {
		errors = append(errors, fmt.Sprintf("invalid backup schedule '%s': %v", c.Backup.Schedule, err))
	}

	if c.AMQP.Enabled() {
		if parsedURL, err := url.Parse(c.AMQP.URL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQP.URL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQP.Exchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQP.Queue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ensureDir creates the parent directory of path when missing and returns a
// validation message on failure.
func ensureDir(path string) string {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return ""
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Sprintf("cannot create directory '%s': %v", dir, err)
		}
	}
	return ""
}
