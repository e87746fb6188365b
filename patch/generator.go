package patch

import (
	"encoding/json"
	"fmt"
	"os"
)

// TechDrums64 builds the built-in 64-step techno drum sequence: a broken
// kick figure, backbeat snares, alternating closed-hat accents and an open
// hat at the tail of every bar. Deterministic - same output every call.
func TechDrums64() [][]DrumHit {
	kick := []int{1, 0, 1, 0, 0, 1, 0, 1}
	snare := []int{0, 0, 0, 1, 0, 0, 0, 1}

	steps := make([][]DrumHit, 64)
	for i := range steps {
		var hits []DrumHit
		if kick[i%len(kick)] == 1 {
			vel := uint8(115)
			if i%8 == 0 {
				vel = 120
			}
			hits = append(hits, DrumHit{Note: NoteKick, Velocity: vel})
		}
		if snare[i%len(snare)] == 1 {
			vel := uint8(105)
			if i%16 == 0 {
				vel = 110
			}
			hits = append(hits, DrumHit{Note: NoteSnare, Velocity: vel})
		}
		if i%2 == 0 {
			hits = append(hits, DrumHit{Note: NoteClosedHat, Velocity: 75})
		} else {
			hits = append(hits, DrumHit{Note: NoteClosedHat, Velocity: 65})
		}
		if i%16 == 7 || i%16 == 15 {
			hits = append(hits, DrumHit{Note: NoteOpenHat, Velocity: 80})
		}
		steps[i] = hits
	}
	return steps
}

// fileDoc mirrors the on-disk patch schema for writing.
type fileDoc struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	BassPattern [][3]any  `json:"bass_pattern"`
	DrumPattern *fileDrum `json:"drum_pattern,omitempty"`
}

type fileDrum struct {
	Steps [][][2]int `json:"steps"`
}

// WriteGenerated writes a ready-to-play patch file built from TechDrums64
// with a root-note bassline underneath, so `acidloop gen` output drops
// straight into the patch directory.
func WriteGenerated(path, name string, bassRoot uint8) error {
	drums := TechDrums64()

	doc := fileDoc{
		Name:        name,
		Description: "generated 64-step techno pattern",
		DrumPattern: &fileDrum{Steps: make([][][2]int, len(drums))},
	}
	for i, hits := range drums {
		pairs := make([][2]int, len(hits))
		for j, h := range hits {
			pairs[j] = [2]int{int(h.Note), int(h.Velocity)}
		}
		doc.DrumPattern.Steps[i] = pairs
	}

	doc.BassPattern = make([][3]any, len(drums))
	for i := range drums {
		vel := 95
		if i%8 == 0 {
			vel = 115 // accent on the downbeat
		}
		section := fmt.Sprintf("bar%d", i/16)
		doc.BassPattern[i] = [3]any{int(bassRoot), vel, fmt.Sprintf("%s_%d", section, i%16)}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
