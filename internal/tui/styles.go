package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/rota/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	Title        lipgloss.Style
	TitleRemove  lipgloss.Style
	DayHeader    lipgloss.Style
	DayToday     lipgloss.Style
	HourGutter   lipgloss.Style
	HourNow      lipgloss.Style
	ResetMarker  lipgloss.Style
	EmptyCell    lipgloss.Style
	PastCell     lipgloss.Style
	MineCell     lipgloss.Style
	OthersCell   lipgloss.Style
	FailedCell   lipgloss.Style
	SelectAdd    lipgloss.Style
	SelectRemove lipgloss.Style
	Status       lipgloss.Style
	StatusError  lipgloss.Style
	Help         lipgloss.Style
	Prompt       lipgloss.Style
	App          lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	base := lipgloss.NewStyle().Foreground(p.Fg).Background(p.Bg)

	return &Styles{
		palette: p,

		Title:       base.Bold(true).Foreground(p.Accent),
		TitleRemove: base.Bold(true).Foreground(p.Bg).Background(p.Failed).Padding(0, 1),
		DayHeader:   base.Bold(true).Background(p.BgHighlight),
		DayToday:    base.Bold(true).Foreground(p.Accent).Background(p.TodayBg),
		HourGutter:  base.Foreground(p.FgMuted),
		HourNow:     base.Bold(true).Foreground(p.Accent),
		ResetMarker: base.Bold(true).Foreground(p.Reset),

		EmptyCell:  base.Foreground(p.FgMuted),
		PastCell:   base.Foreground(p.FgMuted).Background(p.PastBg),
		MineCell:   base.Bold(true).Foreground(p.Mine).Background(p.MineBg),
		OthersCell: base.Foreground(p.Others).Background(p.OthersBg),
		FailedCell: base.Bold(true).Underline(true).Foreground(p.Failed).Background(p.RemoveBg),

		SelectAdd:    base.Foreground(p.TextOnSel).Background(p.BgSelection),
		SelectRemove: base.Foreground(p.Fg).Background(p.RemoveBg).Strikethrough(true),

		Status:      base.Foreground(p.Fg),
		StatusError: base.Bold(true).Foreground(p.Failed),
		Help:        base.Foreground(p.FgMuted),
		Prompt:      base.Foreground(p.Accent),
		App:         base,
	}
}
