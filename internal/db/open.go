package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/javiermolinar/rota/internal/config"
	"github.com/javiermolinar/rota/internal/roster"
)

// Open returns the repository selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (roster.Repository, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		repo, err := New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.DriverMongo:
		repo, err := NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
