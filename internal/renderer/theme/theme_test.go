package theme

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/linelight/internal/renderer/core"
)

func TestBuiltinThemes(t *testing.T) {
	for _, theme := range []*Theme{DefaultTheme(), MonokaiTheme(), DraculaTheme(), SolarizedDarkTheme(), LightTheme()} {
		t.Run(theme.Name, func(t *testing.T) {
			if theme.Background.IsDefault() || theme.Foreground.IsDefault() {
				t.Error("built-in themes should set explicit colors")
			}
			if theme.LineHighlightAlpha == 0 {
				t.Error("line highlight should not be invisible")
			}
			if theme.LineHighlight.Equals(theme.Foreground) {
				t.Error("line highlight should differ from foreground")
			}
		})
	}
}

func TestLineHighlightBrush(t *testing.T) {
	light := LightTheme()
	b := light.LineHighlightBrush()
	if !b.Color.Equals(core.ColorBlue) || b.Alpha != 0x20 {
		t.Errorf("LineHighlightBrush() = %v, want #0000FF@32", b)
	}

	// A translucent band over white stays light.
	painted := b.Over(light.Background)
	if painted.R < 200 || painted.B != 255 {
		t.Errorf("band over background = %v, want pale blue", painted)
	}
}

func TestDeriveLineHighlight(t *testing.T) {
	bg := core.ColorFromRGB(30, 30, 30)
	fg := core.ColorFromRGB(212, 212, 212)
	got := DeriveLineHighlight(bg, fg)
	if got.Equals(bg) {
		t.Error("derived highlight should differ from background")
	}
	if got.R > 80 {
		t.Errorf("derived highlight %v should stay close to background", got)
	}
}

func TestThemeClone(t *testing.T) {
	orig := DefaultTheme()
	clone := orig.Clone()
	clone.Name = "Changed"
	if orig.Name != "Default Dark" {
		t.Error("Clone should not share state with the original")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	want := []string{"Default Dark", "Dracula", "Light", "Monokai", "Solarized Dark"}
	if diff := cmp.Diff(want, r.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if r.Current().Name != "Default Dark" {
		t.Errorf("Current() = %q, want Default Dark", r.Current().Name)
	}

	if r.SetCurrent("Missing") {
		t.Error("SetCurrent should fail for unknown theme")
	}
	if !r.SetCurrent("Monokai") || r.Current().Name != "Monokai" {
		t.Error("SetCurrent(Monokai) should switch themes")
	}

	if _, ok := r.Get("Dracula"); !ok {
		t.Error("Get(Dracula) should find built-in theme")
	}
}

func TestRegistryReplaceCurrent(t *testing.T) {
	r := NewRegistry()
	replacement := DefaultTheme()
	replacement.Background = core.ColorBlack
	r.Register(replacement)

	if !r.Current().Background.Equals(core.ColorBlack) {
		t.Error("replacing the current theme should update Current()")
	}
}

func TestRegistryNext(t *testing.T) {
	r := NewRegistry()

	var seen []string
	for range r.Names() {
		seen = append(seen, r.Next().Name)
	}
	want := []string{"Dracula", "Light", "Monokai", "Solarized Dark", "Default Dark"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("Next() order mismatch (-want +got):\n%s", diff)
	}
}
