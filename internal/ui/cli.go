package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/rota/internal/board"
	"github.com/javiermolinar/rota/internal/config"
	"github.com/javiermolinar/rota/internal/db"
	"github.com/javiermolinar/rota/internal/logging"
	"github.com/javiermolinar/rota/internal/reconcile"
	"github.com/javiermolinar/rota/internal/roster"
	"github.com/javiermolinar/rota/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo    roster.Repository
	config  *config.Config
	log     *zap.Logger
	root    *cobra.Command
	now     func() time.Time
	debug   bool // Enable debug logging
	noColor bool
}

// NewApp creates a new CLI application for the given config. The
// repository is opened on first use.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg, log: zap.NewNop(), now: time.Now}

	a.root = &cobra.Command{
		Use:   "rota",
		Short: "A shared weekly duty roster",
		Long: `Rota is a week-grid duty roster.

Each cell is one hour of one day. Click a cell to take or drop the shift,
drag to cover a block of hours, and see who else is on duty alongside you.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if a.noColor {
				DisableColor()
			}
			return a.setupLogger()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(cmd.Context()); err != nil {
				return err
			}
			return tui.Run(a.repo, a.config, a.noColor, tui.WithLogger(a.log))
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to "+logging.DebugLogPath+")")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.assignCmd())
	a.root.AddCommand(a.unassignCmd())
	a.root.AddCommand(a.toggleCmd())
	a.root.AddCommand(a.resetsCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rota %s (commit: %s)\n", Version, Commit)
		},
	}
}

func (a *App) setupLogger() error {
	log, err := logging.New(logging.Options{
		Level: a.config.Log.Level,
		Path:  a.config.Log.Path,
		Debug: a.debug,
	})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	a.log = log.With(zap.String("user", a.config.User.ID))
	return nil
}

// ensureRepo opens the configured repository once.
func (a *App) ensureRepo(ctx context.Context) error {
	if a.repo != nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	repo, err := db.Open(ctx, a.config.Storage)
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", a.config.Storage.Driver, err)
	}
	a.log.Debug("storage opened", zap.String("driver", a.config.Storage.Driver))
	a.repo = repo
	return nil
}

// loadBoard opens a roster session on the week containing anchor.
func (a *App) loadBoard(ctx context.Context, anchor time.Time) (*board.Board, error) {
	if err := a.ensureRepo(ctx); err != nil {
		return nil, err
	}
	b := board.New(a.config.Window(), a.config.Identity(), anchor,
		board.WithLogger(a.log),
		board.WithClock(a.now),
	)
	if err := b.Load(ctx, a.repo); err != nil {
		return nil, err
	}
	return b, nil
}

func (a *App) reconciler() *reconcile.Reconciler {
	return reconcile.New(a.repo,
		reconcile.WithLogger(a.log),
		reconcile.WithConcurrency(a.config.Sync.Concurrency),
		reconcile.WithTimeout(a.config.SyncTimeout()),
	)
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the repository and flushes the logger.
func (a *App) Close() error {
	_ = a.log.Sync()
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}
