package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if cfg.Prefix != "!" {
		t.Fatalf("expected default prefix !, got %q", cfg.Prefix)
	}
	if cfg.StorageDriver != "json" || cfg.StoragePath != "datastore.json" {
		t.Fatalf("unexpected storage defaults %q %q", cfg.StorageDriver, cfg.StoragePath)
	}
	if cfg.ReminderPoll != 15*time.Second {
		t.Fatalf("unexpected poll interval %s", cfg.ReminderPoll)
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "secret")
	t.Setenv("COMMAND_PREFIX", "?")
	t.Setenv("ALLOWED_GUILDS", "1,2")
	t.Setenv("REMINDER_POLL", "1m")
	t.Setenv("STRICT_ALIASES", "true")

	cfg, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if cfg.DiscordToken != "secret" || cfg.Prefix != "?" || !cfg.StrictAliases {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !slices.Equal(cfg.AllowedGuilds, []string{"1", "2"}) {
		t.Fatalf("unexpected guilds %v", cfg.AllowedGuilds)
	}
	if cfg.ReminderPoll != time.Minute {
		t.Fatalf("unexpected poll %s", cfg.ReminderPoll)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestNewParseError(t *testing.T) {
	t.Setenv("REMINDER_POLL", "soon")

	_, err := New()
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}

func TestValidateRequiresToken(t *testing.T) {
	cfg := &Config{Prefix: "!", ReminderPoll: time.Second}
	if err := cfg.Validate(); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("REMINDME_DOTENV_PROBE=loaded\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("REMINDME_DOTENV_PROBE") })

	if !LoadDotEnv(path) {
		t.Fatal("expected file to load")
	}
	if os.Getenv("REMINDME_DOTENV_PROBE") != "loaded" {
		t.Fatal("expected variable from file")
	}
	if LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")) {
		t.Fatal("missing file should report false")
	}
}
