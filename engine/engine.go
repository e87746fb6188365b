package engine

import (
	"context"
	"errors"
	"time"

	"acidloop/debug"
	"acidloop/midi"
	"acidloop/patch"
)

// ErrNoPatterns means the store had nothing playable at startup; the engine
// refuses to enter the loop and the operator gets told, not a silent hang.
var ErrNoPatterns = errors.New("no patterns available in patch directory")

const (
	// Minimum interval between patch directory rescans. Not configurable;
	// reload latency is bounded by this plus one pattern length.
	rescanInterval = time.Second

	// Silence between note-off and the next note-on. Keeps the gap visible
	// to the hardware even at MaxBPM.
	stepGap = 10 * time.Millisecond

	eventBuffer    = 16
	snapshotBuffer = 8
)

// Engine drives playback: it walks the current pattern's steps at the tempo
// clock's cadence, fires voices through the output, and applies operator
// pattern switches only at loop boundaries. Everything runs on the one
// goroutine that calls Run; the channels are its only contact surface.
type Engine struct {
	store *patch.Store
	tempo *Tempo
	out   midi.Output

	events    chan Event
	snapshots chan Snapshot

	current     *patch.Pattern
	currentSlot rune
	queuedID    string
	queuedSlot  rune
	redraw      bool
	lastScan    time.Time

	// swapped for fakes in tests
	sleep func(time.Duration)
	now   func() time.Time
}

// New creates an engine over a store, tempo clock and output.
func New(store *patch.Store, tempo *Tempo, out midi.Output) *Engine {
	return &Engine{
		store:     store,
		tempo:     tempo,
		out:       out,
		events:    make(chan Event, eventBuffer),
		snapshots: make(chan Snapshot, snapshotBuffer),
		sleep:     time.Sleep,
		now:       time.Now,
	}
}

// Events is where operator input goes. Senders must not block: use a
// non-blocking send and drop on overflow, the next event supersedes anyway.
func (e *Engine) Events() chan<- Event {
	return e.events
}

// Snapshots emits one frame per step for the presentation layer. Frames are
// dropped, never queued up, when the consumer lags.
func (e *Engine) Snapshots() <-chan Snapshot {
	return e.snapshots
}

// Run scans once, picks the first slotted pattern and plays until a quit
// event or context cancellation. The active pattern only ever changes
// between passes, so the output never sees a truncated loop.
func (e *Engine) Run(ctx context.Context) error {
	e.store.Scan()
	e.lastScan = e.now()

	first, ok := e.store.FirstBySlot()
	if !ok {
		return ErrNoPatterns
	}
	e.current = first.Pattern
	e.currentSlot = first.Key
	e.redraw = true
	debug.Log("engine", "starting on %q", e.current.ID)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if e.now().Sub(e.lastScan) >= rescanInterval {
			if e.store.Scan() {
				e.redraw = true
			}
			e.lastScan = e.now()
		}

		if !e.playPass(ctx) {
			if err := ctx.Err(); err != nil {
				return err
			}
			debug.Log("engine", "quit requested, stopping")
			return nil
		}

		e.applyQueued()
	}
}

// applyQueued swaps the current pattern to the queued one. This is the only
// place the active pattern identity changes. A queued id that vanished from
// the store before the boundary is dropped and the engine stays put.
func (e *Engine) applyQueued() {
	if e.queuedID == "" {
		return
	}
	if p, ok := e.store.ByID(e.queuedID); ok && p.Playable() {
		e.current = p
		if key, ok := e.store.SlotForID(p.ID); ok {
			e.currentSlot = key
		} else {
			e.currentSlot = 0
		}
		debug.Log("engine", "switched to %q at loop boundary", p.ID)
	} else {
		debug.Log("engine", "queued %q vanished before boundary, staying on %q", e.queuedID, e.current.ID)
	}
	e.queuedID = ""
	e.queuedSlot = 0
	e.redraw = true
}

// playPass plays one complete pass over the current pattern. Returns false
// if the pass was aborted by a quit event or cancellation. Each step does
// exactly one non-blocking input poll, then one hold of the step duration;
// the pattern pointer is immutable, so a file deleted mid-pass cannot tear
// the loop.
func (e *Engine) playPass(ctx context.Context) bool {
	p := e.current

	for i, step := range p.BassSteps {
		if e.redraw {
			e.emit(e.snapshotAt(p, i, step, true))
			e.redraw = false
		}

		select {
		case <-ctx.Done():
			return false
		case ev := <-e.events:
			if !e.handleEvent(ev) {
				return false
			}
		default:
		}

		hits := p.DrumHitsAt(i)
		e.emit(e.snapshotAt(p, i, step, false))

		for _, h := range hits {
			e.out.VoiceOn(midi.RoleDrum, h.Note, h.Velocity)
		}
		e.out.VoiceOn(midi.RoleBass, step.Pitch, step.Velocity)

		// Duration read at trigger time: a tempo nudge polled this step
		// stretches or shrinks this very hold.
		e.sleep(e.tempo.StepDuration())

		e.out.VoiceOff(midi.RoleBass, step.Pitch)
		for _, h := range hits {
			e.out.VoiceOff(midi.RoleDrum, h.Note)
		}

		e.sleep(stepGap)
	}
	return true
}

// handleEvent applies one operator input. Returns false on quit.
func (e *Engine) handleEvent(ev Event) bool {
	switch ev.Type {
	case EventQuit:
		return false
	case EventResize:
		e.redraw = true
	case EventTempoUp:
		e.tempo.Increase()
	case EventTempoDown:
		e.tempo.Decrease()
	case EventSelectSlot:
		if p, ok := e.store.BySlot(ev.Slot); ok && p.Playable() {
			// A request, not a switch: a second key before the boundary
			// just overwrites the pending one.
			e.queuedID = p.ID
			e.queuedSlot = ev.Slot
			e.redraw = true
		}
	}
	return true
}

func (e *Engine) snapshotAt(p *patch.Pattern, i int, step patch.BassStep, redraw bool) Snapshot {
	return Snapshot{
		StepIndex:    i,
		TotalSteps:   p.Len(),
		BassPitch:    step.Pitch,
		BassVelocity: step.Velocity,
		BassLabel:    step.Label,
		DrumHits:     p.DrumHitsAt(i),
		TempoBPM:     e.tempo.BPM(),
		CurrentID:    p.ID,
		CurrentSlot:  e.currentSlot,
		QueuedID:     e.queuedID,
		QueuedSlot:   e.queuedSlot,
		Redraw:       redraw,
	}
}

// emit sends a snapshot without ever blocking playback.
func (e *Engine) emit(s Snapshot) {
	select {
	case e.snapshots <- s:
	default:
	}
}
