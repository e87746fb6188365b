package widgets

import (
	"strings"
	"testing"

	"acidloop/patch"
)

func TestNoteName(t *testing.T) {
	tests := []struct {
		note uint8
		want string
	}{
		{60, "C4"},
		{61, "C#4"},
		{28, "E1"},
		{36, "C2"},
		{33, "A1"},
		{0, "C-1"},
		{127, "G9"},
	}
	for _, tt := range tests {
		if got := NoteName(tt.note); got != tt.want {
			t.Errorf("NoteName(%d) = %q, want %q", tt.note, got, tt.want)
		}
	}
}

func TestStepIndicator(t *testing.T) {
	tests := []struct {
		step, total int
		want        string
	}{
		{0, 16, "[ ]  1/16 (  6%)"},
		{7, 16, "[◑]  8/16 ( 50%)"},
		{15, 16, "[●] 16/16 (100%)"},
		{16, 16, "[ ]  1/16 (  6%)"}, // wraps
	}
	for _, tt := range tests {
		if got := StepIndicator(tt.step, tt.total); got != tt.want {
			t.Errorf("StepIndicator(%d, %d) = %q, want %q", tt.step, tt.total, got, tt.want)
		}
	}
}

func TestStepIndicatorZeroSteps(t *testing.T) {
	// Degenerate input must not divide by zero.
	if got := StepIndicator(0, 0); got == "" {
		t.Error("StepIndicator(0,0) returned empty string")
	}
}

func TestNoteVisualizer(t *testing.T) {
	tests := []struct {
		note uint8
		want string
	}{
		{20, "○○○○○○○○"},  // below range
		{28, "○○○○○○○○"},  // bottom of range
		{44, "○○○○●●●●"},  // midpoint
		{60, "●●●●●●●●"},  // top of range
		{100, "●●●●●●●●"}, // above range
	}
	for _, tt := range tests {
		if got := NoteVisualizer(tt.note); got != tt.want {
			t.Errorf("NoteVisualizer(%d) = %q, want %q", tt.note, got, tt.want)
		}
	}
}

func TestAccentMarker(t *testing.T) {
	if got := AccentMarker(111); got != "◆" {
		t.Errorf("AccentMarker(111) = %q", got)
	}
	if got := AccentMarker(110); got != " " {
		t.Errorf("AccentMarker(110) = %q", got)
	}
}

func TestDrumSymbols(t *testing.T) {
	tests := []struct {
		name string
		hits []patch.DrumHit
		want string
	}{
		{"kick snare hat", []patch.DrumHit{
			{Note: patch.NoteKick, Velocity: 120},
			{Note: patch.NoteSnare, Velocity: 105},
			{Note: patch.NoteClosedHat, Velocity: 75},
		}, "KSH"},
		{"open hat counts as H", []patch.DrumHit{{Note: patch.NoteOpenHat, Velocity: 80}}, "H"},
		{"toms have no symbol", []patch.DrumHit{{Note: patch.NoteTomLow, Velocity: 90}}, ""},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DrumSymbols(tt.hits); got != tt.want {
				t.Errorf("DrumSymbols = %q, want %q", got, tt.want)
			}
		})
	}
}

func sectionPattern() *patch.Pattern {
	return &patch.Pattern{
		ID: "s",
		BassSteps: []patch.BassStep{
			{Pitch: 36, Label: "intro_0"},
			{Pitch: 36, Label: "intro_1"},
			{Pitch: 40, Label: "drop_0"},
			{Pitch: 40, Label: "drop_1"},
		},
	}
}

func TestSectionChange(t *testing.T) {
	p := sectionPattern()

	next, in, ok := SectionChange(p, 0)
	if !ok || next != "drop" || in != 2 {
		t.Errorf("SectionChange(0) = %q, %d, %v; want drop, 2, true", next, in, ok)
	}

	next, in, ok = SectionChange(p, 1)
	if !ok || next != "drop" || in != 1 {
		t.Errorf("SectionChange(1) = %q, %d, %v; want drop, 1, true", next, in, ok)
	}

	if _, _, ok := SectionChange(p, 2); ok {
		t.Error("SectionChange(2) found a change in the final section")
	}
	if _, _, ok := SectionChange(p, 10); ok {
		t.Error("SectionChange out of range should report none")
	}
	if _, _, ok := SectionChange(nil, 0); ok {
		t.Error("SectionChange(nil) should report none")
	}
}

func TestStatusLine(t *testing.T) {
	p := sectionPattern()
	line := StatusLine(p, 1, 36, 115, []patch.DrumHit{{Note: patch.NoteKick, Velocity: 120}})

	for _, want := range []string{"C2", "v:115", "◆", "K", "drop in 1"} {
		if !strings.Contains(line, want) {
			t.Errorf("status line %q missing %q", line, want)
		}
	}
}
