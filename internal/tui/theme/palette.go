package theme

import (
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Mine        lipgloss.Color
	Others      lipgloss.Color
	Reset       lipgloss.Color
	Failed      lipgloss.Color

	// Cell backgrounds, toned down so labels stay readable.
	MineBg    lipgloss.Color
	OthersBg  lipgloss.Color
	PastBg    lipgloss.Color
	RemoveBg  lipgloss.Color
	ResetRow  lipgloss.Color
	TodayBg   lipgloss.Color
	IsLight   bool
	TextOnSel lipgloss.Color
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load("mocha")
	}
	light := isLightTheme(t.Bg)

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Mine:        lipgloss.Color(t.Mine),
		Others:      lipgloss.Color(t.Others),
		Reset:       lipgloss.Color(t.Reset),
		Failed:      lipgloss.Color(t.Failed),

		MineBg:    lipgloss.Color(cellBg(t.Mine, t.Bg, light)),
		OthersBg:  lipgloss.Color(cellBg(t.Others, t.Bg, light)),
		PastBg:    lipgloss.Color(blendColors(t.BgHighlight, t.Bg, 0.5)),
		RemoveBg:  lipgloss.Color(cellBg(t.Failed, t.Bg, light)),
		ResetRow:  lipgloss.Color(blendColors(t.Reset, t.Bg, 0.85)),
		TodayBg:   lipgloss.Color(blendColors(t.Accent, t.Bg, 0.8)),
		IsLight:   light,
		TextOnSel: lipgloss.Color(chooseTextColor(t.BgSelection, t.Fg, t.Bg)),
	}
}

func isLightTheme(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

func cellBg(accent, bg string, isLight bool) string {
	if isLight {
		return blendColors(accent, bg, 0.75)
	}
	return blendColors(accent, bg, 0.6)
}

func parseHexColor(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

func formatHexColor(r, g, b int) string {
	const digits = "0123456789abcdef"
	out := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, c := range []int{r, g, b} {
		out[1+2*i] = digits[c>>4&0xf]
		out[2+2*i] = digits[c&0xf]
	}
	return string(out)
}

// blendColors mixes a toward b; ratio 0 returns a and 1 returns b.
func blendColors(a, b string, ratio float64) string {
	ar, ag, ab, ok1 := parseHexColor(a)
	br, bg, bb, ok2 := parseHexColor(b)
	if !ok1 || !ok2 {
		return a
	}
	ratio = math.Max(0, math.Min(1, ratio))
	mix := func(x, y int) int {
		return int(float64(x)*(1-ratio) + float64(y)*ratio)
	}
	return formatHexColor(mix(ar, br), mix(ag, bg), mix(ab, bb))
}

func chooseTextColor(bg, lightText, darkText string) string {
	if contrastRatio(bg, lightText) >= contrastRatio(bg, darkText) {
		return lightText
	}
	return darkText
}

func contrastRatio(a, b string) float64 {
	l1 := relativeLuminance(a)
	l2 := relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func relativeLuminance(hex string) float64 {
	r, g, b, ok := parseHexColor(hex)
	if !ok {
		return 0
	}
	return 0.2126*srgbToLinear(r) + 0.7152*srgbToLinear(g) + 0.0722*srgbToLinear(b)
}

func srgbToLinear(c int) float64 {
	v := float64(c) / 255.0
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}
