package patch

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Southclaws/fault/ftag"

	"acidloop/debug"
)

// SlotKeys is the fixed slot-key alphabet, in keyboard order. The
// lexicographically first pattern gets 'q', the second 'w', and so on.
// Patterns past the 26th get no slot but stay loaded.
const SlotKeys = "qwertyuiopasdfghjklzxcvbnm"

// SlotEntry pairs a slot key with the pattern holding it.
type SlotEntry struct {
	Key     rune
	Pattern *Pattern
}

// Store owns the patch collection on disk. Scan is cheap enough to call every
// second from the playback loop; readers (the TUI) take the read lock.
//
// The reload watermark is a single timestamp shared across all files, exactly
// as the original behaves: a file edited in the same second as a scan, without
// its mtime moving past the watermark, is not picked up until it is touched
// again. Per-file mtimes would close that window; deliberately not done so
// observable behavior stays put.
type Store struct {
	dir string

	mu       sync.RWMutex
	patterns map[string]*Pattern
	slots    map[rune]string
	lastScan time.Time
	lastErrs map[string]error
}

// NewStore creates a store over a patch directory. The directory does not
// need to exist yet; Scan simply finds nothing until it does.
func NewStore(dir string) *Store {
	return &Store{
		dir:      dir,
		patterns: make(map[string]*Pattern),
		slots:    make(map[rune]string),
		lastErrs: make(map[string]error),
	}
}

// Scan walks the patch directory once and reconciles the store against it:
// unseen or modified files are parsed and upserted, vanished files are
// removed, and slot assignment is recomputed. Malformed files are skipped
// (the previous version, if any, stays in use). Returns true if anything
// was added, replaced, or removed.
func (s *Store) Scan() bool {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	seen := make(map[string]bool)

	// os.ReadDir sorts by filename, which fixes the processing order.
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		seen[id] = true

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if _, known := s.patterns[id]; known && !info.ModTime().After(s.lastScan) {
			continue
		}

		p, err := ParseFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			s.lastErrs[entry.Name()] = err
			debug.Log("scan", "skip %s (%s): %v", entry.Name(), ftag.Get(err), err)
			continue
		}
		delete(s.lastErrs, entry.Name())
		s.patterns[id] = p
		changed = true
	}

	for id := range s.patterns {
		if !seen[id] {
			delete(s.patterns, id)
			debug.Log("scan", "removed %s", id)
			changed = true
		}
	}

	s.lastScan = time.Now()
	s.assignSlots()
	return changed
}

// assignSlots recomputes the slot map: sorted ids zipped against SlotKeys.
// Pure function of the current id set, so a no-op scan yields an identical
// map. Caller holds the write lock.
func (s *Store) assignSlots() {
	ids := make([]string, 0, len(s.patterns))
	for id := range s.patterns {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	s.slots = make(map[rune]string)
	keys := []rune(SlotKeys)
	for i, id := range ids {
		if i >= len(keys) {
			break
		}
		s.slots[keys[i]] = id
	}
}

// SlotCount returns how many patterns currently hold a slot.
func (s *Store) SlotCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}

// ByID looks up a pattern by its id.
func (s *Store) ByID(id string) (*Pattern, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patterns[id]
	return p, ok
}

// BySlot looks up the pattern assigned to a slot key.
func (s *Store) BySlot(key rune) (*Pattern, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.slots[key]
	if !ok {
		return nil, false
	}
	p, ok := s.patterns[id]
	return p, ok
}

// SlotForID returns the slot key currently assigned to a pattern id.
func (s *Store) SlotForID(id string) (rune, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for key, slotID := range s.slots {
		if slotID == id {
			return key, true
		}
	}
	return 0, false
}

// AllBySlot returns every slotted pattern in slot-key alphabet order
// (the order the patch list renders in).
func (s *Store) AllBySlot() []SlotEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []SlotEntry
	for _, key := range SlotKeys {
		if id, ok := s.slots[key]; ok {
			out = append(out, SlotEntry{Key: key, Pattern: s.patterns[id]})
		}
	}
	return out
}

// FirstBySlot returns the first playable slotted pattern, if any. Patterns
// with an empty bassline hold their slot but are skipped here.
func (s *Store) FirstBySlot() (SlotEntry, bool) {
	for _, entry := range s.AllBySlot() {
		if entry.Pattern.Playable() {
			return entry, true
		}
	}
	return SlotEntry{}, false
}

// LastErrors returns the most recent skip reason per filename, for
// diagnostics. A file clears its entry once it parses again.
func (s *Store) LastErrors() map[string]error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]error, len(s.lastErrs))
	for k, v := range s.lastErrs {
		out[k] = v
	}
	return out
}
