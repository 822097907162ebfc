package ui

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (a *App) weekCmd() *cobra.Command {
	var (
		date       string
		viewerZone string
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the roster for a week",
		Long: `Display who is on duty for each hour of the week containing --date.

Hours run from the configured shift start. Rows marked ▸ are the hours
where a daily reset falls on your clock.

Example:
  rota week --date=next-week`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			anchor, err := parseDateFlag(date, a.now())
			if err != nil {
				return err
			}
			viewer, err := loadViewerZone(viewerZone)
			if err != nil {
				return err
			}
			projector, err := a.config.Projector(viewer)
			if err != nil {
				return fmt.Errorf("building reset projector: %w", err)
			}

			b, err := a.loadBoard(cmd.Context(), anchor)
			if err != nil {
				return err
			}

			markers := make(map[int]bool)
			for _, h := range projector.Markers(anchor) {
				markers[h] = true
			}
			printWeek(cmd.OutOrStdout(), b, weekOpts{
				Markers: markers,
				Width:   termWidth(),
				Empty:   all,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any date in the week (YYYY-MM-DD or relative, default: today)")
	cmd.Flags().StringVar(&viewerZone, "viewer-zone", "", "IANA zone to place reset markers in (default: local)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Show empty hours too")
	return cmd
}

// loadViewerZone resolves an IANA zone name; empty means the local zone.
func loadViewerZone(name string) (*time.Location, error) {
	if name == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid viewer zone %q: %w", name, err)
	}
	return loc, nil
}
