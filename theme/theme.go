package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme maps palette positions onto the looper's UI roles. The roles echo
// the original hardware-terminal color pairs: cyan-ish header, green for
// the pattern on air, yellow for the queued one, red for trouble.
type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	Current rune // ▶ pattern playing now
	Queued  rune // ► pattern queued for the next loop
	Accent  rune // ◆ accented step
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleMuted   = 0.2
	RoleFG      = 0.45
	RoleHeader  = 0.6
	RoleQueued  = 0.8
	RoleCurrent = 0.55
	RoleError   = 1.0
)

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Current: '▶',
			Queued:  '►',
			Accent:  '◆',
		},
	}
}

// Style helpers

func (t *Theme) Header() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.color(RoleHeader)).Bold(true)
}

func (t *Theme) Current() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.color(RoleCurrent)).Bold(true)
}

func (t *Theme) Queued() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.color(RoleQueued)).Bold(true)
}

func (t *Theme) Plain() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.color(RoleFG))
}

func (t *Theme) Muted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.color(RoleMuted))
}

func (t *Theme) Error() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.color(RoleError)).Bold(true)
}

func (t *Theme) Border() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.color(RoleMuted)).
		Padding(0, 1)
}

func (t *Theme) color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
