package engine

import (
	"testing"
	"time"
)

func TestNewTempoClampsIntoBounds(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"below min", 10, MinBPM},
		{"at min", 60, 60},
		{"typical", 90, 90},
		{"at max", 180, 180},
		{"above max", 300, MaxBPM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewTempo(tt.in).BPM(); got != tt.want {
				t.Errorf("NewTempo(%d).BPM() = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestIncreaseDecreaseSaturate(t *testing.T) {
	tp := NewTempo(MaxBPM - 1)
	tp.Increase()
	if tp.BPM() != MaxBPM {
		t.Fatalf("BPM = %d, want %d", tp.BPM(), MaxBPM)
	}
	tp.Increase()
	if tp.BPM() != MaxBPM {
		t.Errorf("Increase overshot max: BPM = %d", tp.BPM())
	}

	tp = NewTempo(MinBPM + 1)
	tp.Decrease()
	if tp.BPM() != MinBPM {
		t.Fatalf("BPM = %d, want %d", tp.BPM(), MinBPM)
	}
	tp.Decrease()
	if tp.BPM() != MinBPM {
		t.Errorf("Decrease overshot min: BPM = %d", tp.BPM())
	}
}

func TestStepMillisecondsAcrossRange(t *testing.T) {
	for bpm := MinBPM; bpm <= MaxBPM; bpm++ {
		tp := NewTempo(bpm)
		want := (60000.0 / float64(bpm)) / 4.0
		if got := tp.StepMilliseconds(); got != want {
			t.Fatalf("StepMilliseconds() at %d BPM = %v, want %v", bpm, got, want)
		}
	}
}

func TestStepDurationRecomputedAfterTempoChange(t *testing.T) {
	tp := NewTempo(120)
	before := tp.StepDuration()
	tp.Increase()
	after := tp.StepDuration()
	if after >= before {
		t.Errorf("step duration did not shrink after Increase: %v -> %v", before, after)
	}

	wantMs := (60000.0 / 121.0) / 4.0
	want := time.Duration(wantMs * float64(time.Millisecond))
	if after != want {
		t.Errorf("StepDuration() = %v, want %v", after, want)
	}
}
