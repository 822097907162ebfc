package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/rota/internal/roster"
)

func (a *App) resetsCmd() *cobra.Command {
	var (
		date       string
		viewerZone string
	)

	cmd := &cobra.Command{
		Use:   "resets",
		Short: "Show where the daily resets fall on your clock",
		Long: `Project the configured reset hours from the reference zone onto a
viewer zone, following daylight saving in the reference zone.

Example:
  rota resets --viewer-zone=Europe/Madrid`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			at, err := parseDateFlag(date, a.now())
			if err != nil {
				return err
			}
			if date == "" {
				at = a.now()
			}
			viewer, err := loadViewerZone(viewerZone)
			if err != nil {
				return err
			}
			p, err := a.config.Projector(viewer)
			if err != nil {
				return fmt.Errorf("building reset projector: %w", err)
			}
			printResets(cmd.OutOrStdout(), p, at)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date to project for (YYYY-MM-DD or relative, default: now)")
	cmd.Flags().StringVar(&viewerZone, "viewer-zone", "", "IANA zone of the viewer (default: local)")
	return cmd
}

func printResets(w io.Writer, p *roster.Projector, at time.Time) {
	season := "standard time"
	if p.InDaylightSaving(at) {
		season = "daylight saving"
	}
	fmt.Fprintf(w, "Reference: %s (UTC%s, %s)\n",
		p.Reference, formatOffset(p.ReferenceOffset(at)), season)
	fmt.Fprintf(w, "Viewer:    %s (UTC%s)\n", p.Viewer, formatOffset(p.ViewerOffset(at)))

	if len(p.Hours) == 0 {
		fmt.Fprintln(w, formatMuted("No reset hours configured."))
		return
	}
	for i, h := range p.Markers(at) {
		fmt.Fprintf(w, "  %02d:00 %s  →  %s local\n",
			p.Hours[i], formatMuted("reference"), formatReset(fmt.Sprintf("%02d:00", h)))
	}
}
