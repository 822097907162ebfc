// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/rota/internal/dateutil"
	"github.com/javiermolinar/rota/internal/roster"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Resets   ResetsConfig   `toml:"resets"`
	User     UserConfig     `toml:"user"`
	Storage  StorageConfig  `toml:"storage"`
	Sync     SyncConfig     `toml:"sync"`
	Log      LogConfig      `toml:"log"`
	UI       UIConfig       `toml:"ui"`
}

// ScheduleConfig holds the week grid layout.
type ScheduleConfig struct {
	WeekStart  string `toml:"week_start" validate:"required,weekday"` // e.g., "sunday"
	ShiftStart int    `toml:"shift_start" validate:"gte=0,lte=23"`    // first display row
}

// ResetsConfig holds the reset hours marked on the grid.
type ResetsConfig struct {
	Zone  string `toml:"zone" validate:"required,timezone"` // reference zone, e.g. "America/New_York"
	Hours []int  `toml:"hours" validate:"dive,gte=0,lte=23"`
}

// UserConfig identifies the acting user.
type UserConfig struct {
	ID   string `toml:"id" validate:"required"`
	Name string `toml:"name"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	Driver        string `toml:"driver" validate:"oneof=sqlite mongo"`
	DBPath        string `toml:"db_path" validate:"required_if=Driver sqlite"`
	MongoURI      string `toml:"mongo_uri" validate:"required_if=Driver mongo"`
	MongoDatabase string `toml:"mongo_database" validate:"required_if=Driver mongo"`
}

// SyncConfig holds persistence fan-out settings.
type SyncConfig struct {
	Concurrency int    `toml:"concurrency" validate:"gte=1,lte=64"`
	Timeout     string `toml:"timeout" validate:"required,duration"` // e.g., "15s"
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
	Path  string `toml:"path"` // empty discards logs unless --debug
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
}

// Default returns the default configuration.
func Default() *Config {
	user := currentUser()
	return &Config{
		Schedule: ScheduleConfig{
			WeekStart:  "sunday",
			ShiftStart: 8,
		},
		Resets: ResetsConfig{
			Zone:  "America/New_York",
			Hours: []int{6, 18},
		},
		User: UserConfig{
			ID:   user,
			Name: user,
		},
		Storage: StorageConfig{
			Driver:        DriverSQLite,
			DBPath:        defaultDBPath(),
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "rota",
		},
		Sync: SyncConfig{
			Concurrency: 8,
			Timeout:     "15s",
		},
		Log: LogConfig{
			Level: "info",
		},
		UI: UIConfig{
			Theme: "mocha",
		},
	}
}

func currentUser() string {
	for _, key := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return "me"
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "rota.db"
	}
	return filepath.Join(home, ".local", "share", "rota", "rota.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "rota", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.Path = expandPath(cfg.Log.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	strs := map[string]*string{
		"ROTA_WEEK_START":     &cfg.Schedule.WeekStart,
		"ROTA_RESET_ZONE":     &cfg.Resets.Zone,
		"ROTA_USER_ID":        &cfg.User.ID,
		"ROTA_USER_NAME":      &cfg.User.Name,
		"ROTA_STORAGE_DRIVER": &cfg.Storage.Driver,
		"ROTA_DB_PATH":        &cfg.Storage.DBPath,
		"ROTA_MONGO_URI":      &cfg.Storage.MongoURI,
		"ROTA_MONGO_DATABASE": &cfg.Storage.MongoDatabase,
		"ROTA_SYNC_TIMEOUT":   &cfg.Sync.Timeout,
		"ROTA_LOG_LEVEL":      &cfg.Log.Level,
		"ROTA_LOG_PATH":       &cfg.Log.Path,
		"ROTA_UI_THEME":       &cfg.UI.Theme,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"ROTA_SHIFT_START":      &cfg.Schedule.ShiftStart,
		"ROTA_SYNC_CONCURRENCY": &cfg.Sync.Concurrency,
	}
	for key, dst := range ints {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", key, v)
		}
		*dst = n
	}

	if v := os.Getenv("ROTA_RESET_HOURS"); v != "" {
		hours, err := parseHours(v)
		if err != nil {
			return fmt.Errorf("ROTA_RESET_HOURS: %w", err)
		}
		cfg.Resets.Hours = hours
	}
	return nil
}

func parseHours(s string) ([]int, error) {
	var hours []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		h, err := roster.ParseHour(part)
		if err != nil {
			return nil, err
		}
		hours = append(hours, h)
	}
	return hours, nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report TOML keys instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, err := dateutil.ParseWeekday(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		d, err := time.ParseDuration(fl.Field().String())
		return err == nil && d > 0
	})
	return v
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return fmt.Errorf("%s: %s", fieldPath(fe), describe(fe))
}

// fieldPath turns "Config.storage.db_path" into "storage.db_path".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "must be set"
	case "weekday":
		return fmt.Sprintf("invalid weekday %q", fe.Value())
	case "timezone":
		return fmt.Sprintf("unknown time zone %q", fe.Value())
	case "duration":
		return fmt.Sprintf("must be a positive duration like \"15s\", got %q", fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	case "gte", "lte":
		return fmt.Sprintf("%v is out of range", fe.Value())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// Window returns the week grid layout.
func (c *Config) Window() roster.WeekWindow {
	weekStart, err := dateutil.ParseWeekday(c.Schedule.WeekStart)
	if err != nil {
		weekStart = time.Sunday
	}
	return roster.NewWeekWindow(weekStart, c.Schedule.ShiftStart)
}

// Identity returns the acting user for this session.
func (c *Config) Identity() roster.StaticIdentity {
	name := c.User.Name
	if name == "" {
		name = c.User.ID
	}
	return roster.StaticIdentity{ID: c.User.ID, DisplayName: name}
}

// Projector builds the reset-hour projector for a viewer zone; nil means
// the local zone.
func (c *Config) Projector(viewer *time.Location) (*roster.Projector, error) {
	return roster.NewProjector(c.Resets.Zone, viewer, c.Resets.Hours...)
}

// SyncTimeout returns the per-call persistence timeout.
func (c *Config) SyncTimeout() time.Duration {
	d, err := time.ParseDuration(c.Sync.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
