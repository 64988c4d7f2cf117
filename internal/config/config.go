// /internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment and an
// optional .env file.
type Config struct {
	DiscordToken  string        `env:"DISCORD_TOKEN"`
	Prefix        string        `env:"COMMAND_PREFIX" envDefault:"!"`
	AllowedGuilds []string      `env:"ALLOWED_GUILDS" envSeparator:","`
	NotFoundText  string        `env:"NOT_FOUND_TEXT"`
	StrictAliases bool          `env:"STRICT_ALIASES" envDefault:"false"`
	StorageDriver string        `env:"STORAGE_DRIVER" envDefault:"json"`
	StoragePath   string        `env:"STORAGE_PATH" envDefault:"datastore.json"`
	ValkeyAddr    string        `env:"VALKEY_ADDR" envDefault:"127.0.0.1:6379"`
	ReminderPoll  time.Duration `env:"REMINDER_POLL" envDefault:"15s"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile       string        `env:"LOG_FILE"`
}

// ErrMissingToken is returned by Validate when no bot token is configured.
var ErrMissingToken = errors.New("DISCORD_TOKEN is not set")

// LoadDotEnv loads files (default ".env") into the process environment. A
// missing file is not an error; it reports whether anything was loaded.
func LoadDotEnv(files ...string) bool {
	return godotenv.Load(files...) == nil
}

// New parses the environment into a Config.
func New() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings the Discord bot cannot run without.
func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return ErrMissingToken
	}
	if c.Prefix == "" {
		return errors.New("COMMAND_PREFIX must not be empty")
	}
	if c.ReminderPoll <= 0 {
		return fmt.Errorf("REMINDER_POLL must be positive, got %s", c.ReminderPoll)
	}
	return nil
}
