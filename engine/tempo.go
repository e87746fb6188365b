package engine

import (
	"sync"
	"time"
)

// Tempo bounds and step size. One nudge of the arrow keys moves one BPM.
const (
	MinBPM     = 60
	MaxBPM     = 180
	DefaultBPM = 90

	tempoStep = 1
)

// Tempo holds the current BPM. The playback goroutine reads it every step
// and the TUI goroutine mutates it, so access is mutex-guarded.
type Tempo struct {
	mu  sync.Mutex
	bpm int
}

// NewTempo creates a tempo clock, clamping the initial BPM into bounds.
func NewTempo(bpm int) *Tempo {
	if bpm < MinBPM {
		bpm = MinBPM
	}
	if bpm > MaxBPM {
		bpm = MaxBPM
	}
	return &Tempo{bpm: bpm}
}

// BPM returns the current tempo.
func (t *Tempo) BPM() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bpm
}

// Increase nudges the tempo up, saturating at MaxBPM.
func (t *Tempo) Increase() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bpm+tempoStep > MaxBPM {
		t.bpm = MaxBPM
		return
	}
	t.bpm += tempoStep
}

// Decrease nudges the tempo down, saturating at MinBPM.
func (t *Tempo) Decrease() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bpm-tempoStep < MinBPM {
		t.bpm = MinBPM
		return
	}
	t.bpm -= tempoStep
}

// StepMilliseconds returns the duration of one sixteenth-note step in
// milliseconds at the current tempo. Computed fresh on every call, never
// cached, so a tempo change lands on the very next step.
func (t *Tempo) StepMilliseconds() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return (60000.0 / float64(t.bpm)) / 4.0
}

// StepDuration is StepMilliseconds as a time.Duration.
func (t *Tempo) StepDuration() time.Duration {
	return time.Duration(t.StepMilliseconds() * float64(time.Millisecond))
}
