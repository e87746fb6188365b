package patch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"gopkg.in/yaml.v3"
)

// Parse failure kinds. The store skips a file on any of these; tests and the
// debug log use the kind to tell malformed syntax from schema violations.
const (
	KindUndecodable  ftag.Kind = "undecodable"
	KindMissingField ftag.Kind = "missing_field"
	KindBadType      ftag.Kind = "bad_type"
)

// ParseFile reads and parses a single patch definition. The pattern ID is the
// base filename without extension. JSON and YAML carry the same schema:
//
//	name:         string (required)
//	description:  string (optional)
//	bass_pattern: [[pitch, velocity, label], ...] (required)
//	drum_pattern: {steps: [[[note, velocity], ...], ...]} (optional)
func ParseFile(path string) (*Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.Wrap(err, ftag.With(KindUndecodable))
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fault.Wrap(err, ftag.With(KindUndecodable), fmsg.With("decode patch file"))
	}

	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return parseRaw(id, raw)
}

// parseRaw validates the decoded document into a Pattern. All shape checking
// happens here, once - downstream code trusts the value types.
func parseRaw(id string, raw map[string]any) (*Pattern, error) {
	name, ok := raw["name"].(string)
	if !ok {
		if _, present := raw["name"]; !present {
			return nil, fault.New("name is required", ftag.With(KindMissingField))
		}
		return nil, fault.New("name must be a string", ftag.With(KindBadType))
	}

	description := ""
	if d, present := raw["description"]; present {
		description, ok = d.(string)
		if !ok {
			return nil, fault.New("description must be a string", ftag.With(KindBadType))
		}
	}

	bassRaw, present := raw["bass_pattern"]
	if !present {
		return nil, fault.New("bass_pattern is required", ftag.With(KindMissingField))
	}
	bassSeq, ok := bassRaw.([]any)
	if !ok {
		return nil, fault.New("bass_pattern must be a sequence", ftag.With(KindBadType))
	}

	bass := make([]BassStep, 0, len(bassSeq))
	for i, stepRaw := range bassSeq {
		step, ok := stepRaw.([]any)
		if !ok || len(step) != 3 {
			return nil, fault.New(
				fmt.Sprintf("bass_pattern[%d] must be [pitch, velocity, label]", i),
				ftag.With(KindBadType))
		}
		pitch, ok1 := asMIDIValue(step[0])
		vel, ok2 := asMIDIValue(step[1])
		label, ok3 := step[2].(string)
		if !ok1 || !ok2 || !ok3 {
			return nil, fault.New(
				fmt.Sprintf("bass_pattern[%d] has wrong element types", i),
				ftag.With(KindBadType))
		}
		bass = append(bass, BassStep{Pitch: pitch, Velocity: vel, Label: label})
	}

	drums, err := parseDrums(raw)
	if err != nil {
		return nil, err
	}

	return &Pattern{
		ID:          id,
		Name:        name,
		Description: description,
		BassSteps:   bass,
		DrumSteps:   drums,
	}, nil
}

func parseDrums(raw map[string]any) ([][]DrumHit, error) {
	drumRaw, present := raw["drum_pattern"]
	if !present {
		return nil, nil
	}
	drumDoc, ok := drumRaw.(map[string]any)
	if !ok {
		return nil, fault.New("drum_pattern must be a mapping", ftag.With(KindBadType))
	}
	stepsRaw, present := drumDoc["steps"]
	if !present {
		return nil, nil
	}
	stepsSeq, ok := stepsRaw.([]any)
	if !ok {
		return nil, fault.New("drum_pattern.steps must be a sequence", ftag.With(KindBadType))
	}

	steps := make([][]DrumHit, 0, len(stepsSeq))
	for i, stepRaw := range stepsSeq {
		hitsSeq, ok := stepRaw.([]any)
		if !ok {
			return nil, fault.New(
				fmt.Sprintf("drum_pattern.steps[%d] must be a sequence of pairs", i),
				ftag.With(KindBadType))
		}
		hits := make([]DrumHit, 0, len(hitsSeq))
		for j, hitRaw := range hitsSeq {
			pair, ok := hitRaw.([]any)
			if !ok || len(pair) != 2 {
				return nil, fault.New(
					fmt.Sprintf("drum_pattern.steps[%d][%d] must be [note, velocity]", i, j),
					ftag.With(KindBadType))
			}
			note, ok1 := asMIDIValue(pair[0])
			vel, ok2 := asMIDIValue(pair[1])
			if !ok1 || !ok2 {
				return nil, fault.New(
					fmt.Sprintf("drum_pattern.steps[%d][%d] has non-integer values", i, j),
					ftag.With(KindBadType))
			}
			hits = append(hits, DrumHit{Note: note, Velocity: vel})
		}
		steps = append(steps, hits)
	}
	return steps, nil
}

// asMIDIValue coerces a decoded number (float64 from JSON, int from YAML)
// into the 0-127 MIDI range.
func asMIDIValue(v any) (uint8, bool) {
	var n int
	switch x := v.(type) {
	case float64:
		if x != float64(int(x)) {
			return 0, false
		}
		n = int(x)
	case int:
		n = x
	case int64:
		n = int(x)
	default:
		return 0, false
	}
	if n < 0 || n > 127 {
		return 0, false
	}
	return uint8(n), true
}
