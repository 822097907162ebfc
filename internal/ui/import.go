package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/rota/internal/config"
	"github.com/javiermolinar/rota/internal/db"
	"github.com/javiermolinar/rota/internal/roster"
)

// Bounds used when importing without a date range.
var (
	importMin = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	importMax = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
)

func (a *App) importCmd() *cobra.Command {
	var (
		since string
		until string
	)

	cmd := &cobra.Command{
		Use:   "import [database_path]",
		Short: "Import assignments from a SQLite roster",
		Long: `Copy every assignment from another rota SQLite database into the
configured storage. Existing assignments for the same slot and user are
overwritten, so the import can be repeated.

Example:
  rota import /path/to/old/rota.db --since=2025-01-01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(cmd.Context()); err != nil {
				return err
			}

			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			if a.config.Storage.Driver == config.DriverSQLite {
				destPath, err := resolvePath(a.config.Storage.DBPath)
				if err != nil {
					return err
				}
				if sourcePath == destPath {
					return fmt.Errorf("source database matches current database")
				}
			}

			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("source database does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking source database: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("source database path is a directory: %s", sourcePath)
			}

			start, end, err := importRange(since, until)
			if err != nil {
				return err
			}

			source, err := db.New(sourcePath)
			if err != nil {
				return fmt.Errorf("opening source database: %w", err)
			}
			defer func() { _ = source.Close() }()

			count, err := importAssignments(cmd.Context(), a.repo, source, start, end)
			if err != nil {
				return err
			}
			a.log.Info("imported assignments", zap.String("source", sourcePath), zap.Int("count", count))

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d assignments from %s\n", count, sourcePath)
			return nil
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "Only import from this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&until, "until", "", "Only import up to this date (YYYY-MM-DD)")
	return cmd
}

func importRange(since, until string) (time.Time, time.Time, error) {
	start, end := importMin, importMax
	if since != "" {
		k, err := roster.ParseDateKey(since)
		if err != nil {
			return time.Time{}, time.Time{}, &roster.ValidationError{Field: "since", Value: since, Err: err}
		}
		start = k.Time(time.UTC)
	}
	if until != "" {
		k, err := roster.ParseDateKey(until)
		if err != nil {
			return time.Time{}, time.Time{}, &roster.ValidationError{Field: "until", Value: until, Err: err}
		}
		end = k.Time(time.UTC)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--until %s is before --since %s", until, since)
	}
	return start, end, nil
}

// importAssignments copies the source's records in [start, end] into dest.
// The count of rows written before a failure is returned with the error.
func importAssignments(ctx context.Context, dest, source roster.Repository, start, end time.Time) (int, error) {
	records, err := source.QueryRange(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("reading source assignments: %w", err)
	}

	imported := 0
	for _, rec := range records {
		if err := dest.WriteSlotAssignment(ctx, rec); err != nil {
			return imported, fmt.Errorf("importing %s: %w", rec.Ref(), err)
		}
		imported++
	}
	return imported, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
