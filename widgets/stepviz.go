package widgets

import (
	"fmt"
	"strings"

	"acidloop/patch"
)

// Glyph ramp for the loop progress indicator, empty through full.
var progressGlyphs = []rune{' ', '○', '◔', '◔', '◑', '◑', '◕', '◕', '●'}

// Pitch range the note visualizer maps onto its 8 dots. Basslines live
// down here; anything outside clips to the ends.
const (
	vizMinNote = 28
	vizMaxNote = 60
)

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// StepIndicator renders loop progress like "[◑]  9/16 ( 56%)".
func StepIndicator(stepIdx, totalSteps int) string {
	if totalSteps <= 0 {
		return "[ ]  0/ 0 (  0%)"
	}
	filled := (stepIdx % totalSteps) + 1
	glyph := (filled * 8) / totalSteps
	if glyph > 8 {
		glyph = 8
	}
	pct := (filled * 100) / totalSteps
	return fmt.Sprintf("[%c] %2d/%2d (%3d%%)", progressGlyphs[glyph], filled, totalSteps, pct)
}

// NoteVisualizer renders a pitch as an 8-dot vertical bar, top down.
func NoteVisualizer(note uint8) string {
	var height int
	switch {
	case int(note) < vizMinNote:
		height = 0
	case int(note) > vizMaxNote:
		height = 8
	default:
		height = (int(note) - vizMinNote) * 8 / (vizMaxNote - vizMinNote)
	}

	var b strings.Builder
	for i := 8; i > 0; i-- {
		if i <= height {
			b.WriteRune('●')
		} else {
			b.WriteRune('○')
		}
	}
	return b.String()
}

// NoteName formats a MIDI note as pitch class plus octave, middle C = C4.
func NoteName(note uint8) string {
	octave := int(note)/12 - 1
	return fmt.Sprintf("%s%d", noteNames[note%12], octave)
}

// AccentMarker flags accented steps in the status line.
func AccentMarker(velocity uint8) string {
	if velocity > 110 {
		return "◆"
	}
	return " "
}

// DrumSymbols condenses a step's drum hits into one letter per voice
// family: K kick, S snare, H hats. Other voices don't get a symbol.
func DrumSymbols(hits []patch.DrumHit) string {
	var b strings.Builder
	for _, h := range hits {
		switch h.Note {
		case patch.NoteKick:
			b.WriteByte('K')
		case patch.NoteSnare:
			b.WriteByte('S')
		case patch.NoteClosedHat, patch.NoteOpenHat:
			b.WriteByte('H')
		}
	}
	return b.String()
}

// SectionChange reports the next section tag in the pattern after step idx
// and how many steps away it is. ok is false when the rest of the pass
// stays in the current section.
func SectionChange(p *patch.Pattern, idx int) (next string, in int, ok bool) {
	if p == nil || idx < 0 || idx >= p.Len() {
		return "", 0, false
	}
	current := p.BassSteps[idx].Section()
	for i := idx + 1; i < p.Len(); i++ {
		if s := p.BassSteps[i].Section(); s != current {
			return s, i - idx, true
		}
	}
	return "", 0, false
}

// StatusLine assembles the now-playing line the way the hardware display
// reads: progress, pitch bar, note name, velocity, accent, drums, and the
// upcoming section when one is close.
func StatusLine(p *patch.Pattern, stepIdx int, pitch, velocity uint8, hits []patch.DrumHit) string {
	line := fmt.Sprintf("%s │ %s │ %-4s v:%3d %s │ %-3s",
		StepIndicator(stepIdx, p.Len()),
		NoteVisualizer(pitch),
		NoteName(pitch),
		velocity,
		AccentMarker(velocity),
		DrumSymbols(hits),
	)
	if next, in, ok := SectionChange(p, stepIdx); ok {
		line += fmt.Sprintf(" │ %s in %d", next, in)
	}
	return line
}
