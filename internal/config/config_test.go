package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Schedule.WeekStart != "sunday" {
		t.Errorf("expected week_start sunday, got %s", cfg.Schedule.WeekStart)
	}
	if cfg.Schedule.ShiftStart != 8 {
		t.Errorf("expected shift_start 8, got %d", cfg.Schedule.ShiftStart)
	}
	if cfg.Resets.Zone != "America/New_York" {
		t.Errorf("expected reset zone America/New_York, got %s", cfg.Resets.Zone)
	}
	if len(cfg.Resets.Hours) != 2 || cfg.Resets.Hours[0] != 6 || cfg.Resets.Hours[1] != 18 {
		t.Errorf("expected reset hours [6 18], got %v", cfg.Resets.Hours)
	}
	if cfg.Storage.Driver != DriverSQLite {
		t.Errorf("expected sqlite driver, got %s", cfg.Storage.Driver)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Schedule.WeekStart != "sunday" {
		t.Errorf("expected default week_start, got %s", cfg.Schedule.WeekStart)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")

	content := `
[schedule]
week_start = "monday"
shift_start = 6

[resets]
zone = "Europe/Berlin"
hours = [0, 12]

[user]
id = "jdoe"
name = "Jane Doe"

[storage]
driver = "mongo"
mongo_uri = "mongodb://db:27017"
mongo_database = "duty"

[sync]
concurrency = 4
timeout = "3s"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Schedule.WeekStart != "monday" || cfg.Schedule.ShiftStart != 6 {
		t.Errorf("schedule = %+v", cfg.Schedule)
	}
	if cfg.Resets.Zone != "Europe/Berlin" {
		t.Errorf("expected zone Europe/Berlin, got %s", cfg.Resets.Zone)
	}
	if cfg.Storage.Driver != DriverMongo || cfg.Storage.MongoDatabase != "duty" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.SyncTimeout() != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", cfg.SyncTimeout())
	}
	// Unset sections keep their defaults.
	if cfg.UI.Theme != "mocha" {
		t.Errorf("expected default theme, got %s", cfg.UI.Theme)
	}
}

func TestLoadFrom_InvalidToml(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[schedule\nweek_start="), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("ROTA_WEEK_START", "saturday")
	t.Setenv("ROTA_SHIFT_START", "22")
	t.Setenv("ROTA_RESET_HOURS", "1, 13")
	t.Setenv("ROTA_USER_ID", "envuser")
	t.Setenv("ROTA_DB_PATH", "/tmp/env.db")
	t.Setenv("ROTA_SYNC_CONCURRENCY", "2")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Schedule.WeekStart != "saturday" {
		t.Errorf("expected saturday, got %s", cfg.Schedule.WeekStart)
	}
	if cfg.Schedule.ShiftStart != 22 {
		t.Errorf("expected shift_start 22, got %d", cfg.Schedule.ShiftStart)
	}
	if len(cfg.Resets.Hours) != 2 || cfg.Resets.Hours[1] != 13 {
		t.Errorf("expected reset hours [1 13], got %v", cfg.Resets.Hours)
	}
	if cfg.User.ID != "envuser" {
		t.Errorf("expected envuser, got %s", cfg.User.ID)
	}
	if cfg.Storage.DBPath != "/tmp/env.db" {
		t.Errorf("expected /tmp/env.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.Sync.Concurrency != 2 {
		t.Errorf("expected concurrency 2, got %d", cfg.Sync.Concurrency)
	}
}

func TestLoadFrom_BadEnvInteger(t *testing.T) {
	t.Setenv("ROTA_SHIFT_START", "eight")

	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "ROTA_SHIFT_START") {
		t.Errorf("expected ROTA_SHIFT_START error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad weekday", func(c *Config) { c.Schedule.WeekStart = "funday" }, "schedule.week_start"},
		{"shift start too high", func(c *Config) { c.Schedule.ShiftStart = 24 }, "schedule.shift_start"},
		{"negative shift start", func(c *Config) { c.Schedule.ShiftStart = -1 }, "schedule.shift_start"},
		{"unknown zone", func(c *Config) { c.Resets.Zone = "Mars/Olympus" }, "resets.zone"},
		{"reset hour out of range", func(c *Config) { c.Resets.Hours = []int{6, 24} }, "resets.hours[1]"},
		{"missing user", func(c *Config) { c.User.ID = "" }, "user.id"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "postgres" }, "storage.driver"},
		{"sqlite without path", func(c *Config) { c.Storage.DBPath = "" }, "storage.db_path"},
		{"mongo without uri", func(c *Config) {
			c.Storage.Driver = DriverMongo
			c.Storage.MongoURI = ""
		}, "storage.mongo_uri"},
		{"zero concurrency", func(c *Config) { c.Sync.Concurrency = 0 }, "sync.concurrency"},
		{"bad timeout", func(c *Config) { c.Sync.Timeout = "soon" }, "sync.timeout"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.HasPrefix(err.Error(), tt.field+":") {
				t.Errorf("error %q should name %s", err, tt.field)
			}
		})
	}
}

func TestValidate_MongoDoesNotNeedDBPath(t *testing.T) {
	cfg := Default()
	cfg.Storage.Driver = DriverMongo
	cfg.Storage.DBPath = ""

	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWindowAndIdentity(t *testing.T) {
	cfg := Default()
	cfg.Schedule.WeekStart = "Monday"
	cfg.User = UserConfig{ID: "jdoe"}

	w := cfg.Window()
	if w.WeekStart != time.Monday || w.ShiftStart != 8 {
		t.Errorf("Window() = %+v", w)
	}

	actor := cfg.Identity().CurrentActingUser()
	if actor.ID != "jdoe" || actor.DisplayName != "jdoe" {
		t.Errorf("Identity() = %+v, want name falling back to id", actor)
	}
}

func TestProjector(t *testing.T) {
	p, err := Default().Projector(time.UTC)
	if err != nil {
		t.Fatalf("Projector: %v", err)
	}
	if len(p.Hours) != 2 {
		t.Errorf("expected 2 reset hours, got %v", p.Hours)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/test/path", filepath.Join(home, "test/path")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := expandPath(tt.input); got != tt.expected {
			t.Errorf("expandPath(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Schedule.ShiftStart = 7
	cfg.User = UserConfig{ID: "saved", Name: "Saved User"}
	cfg.Storage.DBPath = "/tmp/saved.db"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if loaded.Schedule.ShiftStart != 7 {
		t.Errorf("expected shift_start 7, got %d", loaded.Schedule.ShiftStart)
	}
	if loaded.User.Name != "Saved User" {
		t.Errorf("expected Saved User, got %s", loaded.User.Name)
	}
}
