package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNewPalette_CellShades(t *testing.T) {
	base := &Theme{
		Bg:          "#000000",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		Mine:        "#00ff00",
		Others:      "#0000ff",
		Reset:       "#ffff00",
		Failed:      "#ff00ff",
	}

	palette := NewPalette(base)

	if palette.IsLight {
		t.Error("black background reported as light")
	}
	if palette.Mine != lipgloss.Color("#00ff00") {
		t.Errorf("Mine = %q", palette.Mine)
	}
	// 40% of pure green over black.
	if palette.MineBg != lipgloss.Color("#006600") {
		t.Errorf("MineBg = %q, want #006600", palette.MineBg)
	}
	if palette.OthersBg != lipgloss.Color("#000066") {
		t.Errorf("OthersBg = %q, want #000066", palette.OthersBg)
	}
}

func TestNewPalette_NilFallsBackToMocha(t *testing.T) {
	palette := NewPalette(nil)
	if palette.Bg != lipgloss.Color("#1e1e2e") {
		t.Errorf("Bg = %q, want mocha base", palette.Bg)
	}
}

func TestBlendColors(t *testing.T) {
	tests := []struct {
		a, b  string
		ratio float64
		want  string
	}{
		{"#000000", "#ffffff", 0, "#000000"},
		{"#000000", "#ffffff", 1, "#ffffff"},
		{"#000000", "#ffffff", 2, "#ffffff"},
		{"#ff0000", "#0000ff", 0.5, "#7f007f"},
		{"red", "#ffffff", 0.5, "red"},
	}

	for _, tt := range tests {
		if got := blendColors(tt.a, tt.b, tt.ratio); got != tt.want {
			t.Errorf("blendColors(%s, %s, %v) = %s, want %s", tt.a, tt.b, tt.ratio, got, tt.want)
		}
	}
}

func TestIsLightTheme(t *testing.T) {
	latte, err := Load("latte")
	if err != nil {
		t.Fatalf("Load(latte): %v", err)
	}
	if !isLightTheme(latte.Bg) {
		t.Error("latte should be a light theme")
	}
	mocha, err := Load("mocha")
	if err != nil {
		t.Fatalf("Load(mocha): %v", err)
	}
	if isLightTheme(mocha.Bg) {
		t.Error("mocha should be a dark theme")
	}
}
