package patch

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Southclaws/fault/ftag"
)

func minimalPatch(name string) string {
	return fmt.Sprintf(`{"name":%q,"bass_pattern":[[36,100,"main_0"]]}`, name)
}

func TestScanReportsNetChanges(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	if s.Scan() {
		t.Error("scan of empty dir reported change")
	}

	path := writeFile(t, dir, "a.json", minimalPatch("A"))
	if !s.Scan() {
		t.Error("scan after add reported no change")
	}
	if s.Scan() {
		t.Error("scan with nothing new reported change")
	}

	// Push the mtime past the watermark to simulate a later edit.
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	if !s.Scan() {
		t.Error("scan after modification reported no change")
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if !s.Scan() {
		t.Error("scan after removal reported no change")
	}
	if _, ok := s.ByID("a"); ok {
		t.Error("removed pattern still retrievable by id")
	}
}

func TestScanSkipsMalformedKeepsOldVersion(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.json", minimalPatch("original"))

	s := NewStore(dir)
	s.Scan()

	// Corrupt the file with a future mtime so the scan re-reads it.
	writeFile(t, dir, "a.json", `{broken`)
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	if s.Scan() {
		t.Error("scan reported change when the only candidate failed to parse")
	}
	p, ok := s.ByID("a")
	if !ok {
		t.Fatal("pattern disappeared after bad re-parse")
	}
	if p.Name != "original" {
		t.Errorf("Name = %q, want the pre-corruption version", p.Name)
	}

	errs := s.LastErrors()
	err, ok := errs["a.json"]
	if !ok {
		t.Fatal("no skip reason recorded for a.json")
	}
	if ftag.Get(err) != KindUndecodable {
		t.Errorf("skip kind = %q, want %q", ftag.Get(err), KindUndecodable)
	}
}

func TestThirtyPatternsTwentySixSlots(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 30; i++ {
		writeFile(t, dir, fmt.Sprintf("p%02d.json", i), minimalPatch(fmt.Sprintf("P%02d", i)))
	}

	s := NewStore(dir)
	s.Scan()

	if got := s.SlotCount(); got != 26 {
		t.Errorf("SlotCount() = %d, want 26", got)
	}
	for i := 0; i < 30; i++ {
		id := fmt.Sprintf("p%02d", i)
		if _, ok := s.ByID(id); !ok {
			t.Errorf("ByID(%q) not found", id)
		}
	}

	// Lexicographically first id takes the first slot key.
	p, ok := s.BySlot('q')
	if !ok || p.ID != "p00" {
		t.Errorf("BySlot('q') = %v, want p00", p)
	}
	// The 27th id onward has no slot.
	if _, ok := s.SlotForID("p26"); ok {
		t.Error("27th pattern should not hold a slot")
	}
}

func TestSlotAssignmentDeterministic(t *testing.T) {
	dir := t.TempDir()
	for _, id := range []string{"zeta", "alpha", "mid"} {
		writeFile(t, dir, id+".json", minimalPatch(id))
	}

	s := NewStore(dir)
	s.Scan()
	first := s.AllBySlot()
	s.Scan()
	second := s.AllBySlot()

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("AllBySlot lengths = %d, %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Key != second[i].Key || first[i].Pattern.ID != second[i].Pattern.ID {
			t.Errorf("slot map changed across no-op scans at %d: %c/%s vs %c/%s",
				i, first[i].Key, first[i].Pattern.ID, second[i].Key, second[i].Pattern.ID)
		}
	}

	// Sorted ids zip against the alphabet: alpha->q, mid->w, zeta->e.
	want := []struct {
		key rune
		id  string
	}{{'q', "alpha"}, {'w', "mid"}, {'e', "zeta"}}
	for i, w := range want {
		if first[i].Key != w.key || first[i].Pattern.ID != w.id {
			t.Errorf("AllBySlot[%d] = %c/%s, want %c/%s",
				i, first[i].Key, first[i].Pattern.ID, w.key, w.id)
		}
	}
}

func TestFirstBySlotSkipsEmptyPatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "aa.json", `{"name":"empty","bass_pattern":[]}`)
	writeFile(t, dir, "bb.json", minimalPatch("real"))

	s := NewStore(dir)
	s.Scan()

	// The empty pattern keeps its slot but is not playable.
	if s.SlotCount() != 2 {
		t.Fatalf("SlotCount() = %d, want 2", s.SlotCount())
	}
	entry, ok := s.FirstBySlot()
	if !ok {
		t.Fatal("FirstBySlot found nothing")
	}
	if entry.Pattern.ID != "bb" || entry.Key != 'w' {
		t.Errorf("FirstBySlot = %c/%s, want w/bb", entry.Key, entry.Pattern.ID)
	}
}

func TestFirstBySlotEmptyStore(t *testing.T) {
	s := NewStore(t.TempDir())
	s.Scan()
	if _, ok := s.FirstBySlot(); ok {
		t.Error("FirstBySlot on empty store reported a pattern")
	}
}

func TestScanIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "not a patch")
	writeFile(t, dir, "a.json", minimalPatch("A"))
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}

	s := NewStore(dir)
	s.Scan()
	if got := s.SlotCount(); got != 1 {
		t.Errorf("SlotCount() = %d, want 1", got)
	}
}

func TestScanMissingDirectory(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "does-not-exist"))
	if s.Scan() {
		t.Error("scan of missing dir reported change")
	}
}
