package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/rota/internal/config"
	"github.com/javiermolinar/rota/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  rota config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), config.DefaultConfigPath())
		},
	}
}

func runConfigInteractive(in io.Reader, out io.Writer, configPath string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.User.ID = promptValue(reader, out, "User id", cfg.User.ID)
	cfg.User.Name = promptValue(reader, out, "Display name", cfg.User.Name)
	cfg.Schedule.WeekStart = promptValue(reader, out, "Week start (weekday)", cfg.Schedule.WeekStart)
	cfg.Schedule.ShiftStart = promptInt(reader, out, "Shift start hour (0-23)", cfg.Schedule.ShiftStart)
	cfg.Resets.Zone = promptValue(reader, out, "Reset reference zone", cfg.Resets.Zone)
	cfg.Resets.Hours = promptHours(reader, out, "Reset hours (comma-separated)", cfg.Resets.Hours)
	cfg.Storage.Driver = promptValue(reader, out, "Storage driver (sqlite, mongo)", cfg.Storage.Driver)
	if cfg.Storage.Driver == config.DriverMongo {
		cfg.Storage.MongoURI = promptValue(reader, out, "MongoDB URI", cfg.Storage.MongoURI)
		cfg.Storage.MongoDatabase = promptValue(reader, out, "MongoDB database", cfg.Storage.MongoDatabase)
	} else {
		cfg.Storage.DBPath = promptValue(reader, out, "Database path", cfg.Storage.DBPath)
	}
	cfg.UI.Theme = promptTheme(reader, out, cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[schedule]")
	fmt.Fprintf(w, "  week_start     = %s\n", cfg.Schedule.WeekStart)
	fmt.Fprintf(w, "  shift_start    = %d\n", cfg.Schedule.ShiftStart)
	fmt.Fprintln(w, "\n[resets]")
	fmt.Fprintf(w, "  zone           = %s\n", cfg.Resets.Zone)
	fmt.Fprintf(w, "  hours          = %s\n", joinHours(cfg.Resets.Hours))
	fmt.Fprintln(w, "\n[user]")
	fmt.Fprintf(w, "  id             = %s\n", cfg.User.ID)
	fmt.Fprintf(w, "  name           = %s\n", cfg.User.Name)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  driver         = %s\n", cfg.Storage.Driver)
	if cfg.Storage.Driver == config.DriverMongo {
		fmt.Fprintf(w, "  mongo_uri      = %s\n", cfg.Storage.MongoURI)
		fmt.Fprintf(w, "  mongo_database = %s\n", cfg.Storage.MongoDatabase)
	} else {
		fmt.Fprintf(w, "  db_path        = %s\n", cfg.Storage.DBPath)
	}
	fmt.Fprintln(w, "\n[sync]")
	fmt.Fprintf(w, "  concurrency    = %d\n", cfg.Sync.Concurrency)
	fmt.Fprintf(w, "  timeout        = %s\n", cfg.Sync.Timeout)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme          = %s\n", cfg.UI.Theme)
}

func joinHours(hours []int) string {
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = strconv.Itoa(h)
	}
	return strings.Join(parts, ", ")
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, out io.Writer, label string, current int) int {
	for {
		value := promptValue(reader, out, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(out, "  Invalid number %q\n", value)
		if _, err := reader.Peek(1); err != nil {
			return current
		}
	}
}

func promptHours(reader *bufio.Reader, out io.Writer, label string, current []int) []int {
	input := promptValue(reader, out, label, joinHours(current))
	var hours []int
	for _, p := range strings.Split(input, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		h, err := strconv.Atoi(p)
		if err != nil {
			fmt.Fprintf(out, "  Ignoring invalid hour %q\n", p)
			continue
		}
		hours = append(hours, h)
	}
	return hours
}

func promptTheme(reader *bufio.Reader, out io.Writer, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, out, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
		if _, err := reader.Peek(1); err != nil {
			return current
		}
	}
}
