package core_test

import (
	"testing"

	"github.com/aretw0/sticky/pkg/core"
)

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want core.Color
	}{
		{name: "Palette Member", raw: "blue", want: core.ColorBlue},
		{name: "Mixed Case And Spaces", raw: "  GrEeN ", want: core.ColorGreen},
		{name: "Legacy Alias", raw: "lavender", want: core.ColorPurple},
		{name: "Legacy Alias Uppercase", raw: "ROSE", want: core.ColorPink},
		{name: "Typed Color", raw: core.ColorOrange, want: core.ColorOrange},
		{name: "Unknown String", raw: "chartreuse", want: core.DefaultColor},
		{name: "Empty String", raw: "", want: core.DefaultColor},
		{name: "Number", raw: 42.0, want: core.DefaultColor},
		{name: "Nil", raw: nil, want: core.DefaultColor},
		{name: "Record", raw: map[string]any{"color": "blue"}, want: core.DefaultColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.NormalizeColor(tt.raw); got != tt.want {
				t.Errorf("NormalizeColor(%v) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestPalette(t *testing.T) {
	colors := core.Palette()
	if len(colors) == 0 {
		t.Fatal("palette is empty")
	}
	if colors[0] != core.DefaultColor {
		t.Errorf("expected default color first, got %q", colors[0])
	}
	for _, c := range colors {
		if !c.Valid() {
			t.Errorf("palette color %q reports invalid", c)
		}
	}

	// Mutating the copy must not leak into the registry.
	colors[0] = "black"
	if core.Palette()[0] != core.DefaultColor {
		t.Error("Palette returned a shared slice")
	}
}
