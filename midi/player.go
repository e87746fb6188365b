package midi

import (
	"fmt"
	"strings"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"acidloop/debug"
)

// Role selects which of the two fixed voices a trigger addresses.
type Role int

const (
	RoleBass Role = iota
	RoleDrum
)

func (r Role) String() string {
	if r == RoleDrum {
		return "drum"
	}
	return "bass"
}

// Output is the sound-emitting seam between the playback engine and the
// hardware. Every VoiceOn is followed by a matching VoiceOff before the
// same note fires again on that role - the engine guarantees the ordering,
// implementations just deliver it.
type Output interface {
	VoiceOn(role Role, note, velocity uint8) error
	VoiceOff(role Role, note uint8) error
	Close() error
}

// Player sends voice triggers to a hardware synth over MIDI, bass and
// drums on two fixed channels.
type Player struct {
	out         drivers.Out
	send        func(gomidi.Message) error
	bassChannel uint8
	drumChannel uint8
}

// NewPlayer opens the first MIDI output whose port name contains match
// (case-insensitive). Channels are zero-based wire channels (bass on 1 and
// drums on 9 address a T-8's bass and rhythm parts).
func NewPlayer(match string, bassChannel, drumChannel uint8) (*Player, error) {
	port, err := FindOutPort(match)
	if err != nil {
		return nil, err
	}
	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("open MIDI port %q: %w", port.String(), err)
	}
	debug.Log("midi", "opened output port %q", port.String())
	return &Player{
		out:         port,
		send:        send,
		bassChannel: bassChannel,
		drumChannel: drumChannel,
	}, nil
}

func (p *Player) channel(role Role) uint8 {
	if role == RoleDrum {
		return p.drumChannel
	}
	return p.bassChannel
}

// VoiceOn triggers a note on the role's channel.
func (p *Player) VoiceOn(role Role, note, velocity uint8) error {
	debug.LogEvery(64, "dispatch", "%s on ch=%d note=%d vel=%d", role, p.channel(role), note, velocity)
	return p.send(gomidi.NoteOn(p.channel(role), note, velocity))
}

// VoiceOff releases a note on the role's channel.
func (p *Player) VoiceOff(role Role, note uint8) error {
	return p.send(gomidi.NoteOff(p.channel(role), note))
}

// Close releases the output port.
func (p *Player) Close() error {
	if p.out == nil {
		return nil
	}
	return p.out.Close()
}

// FindOutPort returns the first MIDI output whose name contains match,
// case-insensitive. The error lists the available ports so the operator
// can fix their config without digging.
func FindOutPort(match string) (drivers.Out, error) {
	lower := strings.ToLower(match)
	for _, port := range gomidi.GetOutPorts() {
		if strings.Contains(strings.ToLower(port.String()), lower) {
			return port, nil
		}
	}
	names := PortNames()
	if len(names) == 0 {
		return nil, fmt.Errorf("no MIDI output matching %q (no ports available)", match)
	}
	return nil, fmt.Errorf("no MIDI output matching %q (available: %s)", match, strings.Join(names, ", "))
}

// PortNames lists the names of all MIDI output ports.
func PortNames() []string {
	var names []string
	for _, port := range gomidi.GetOutPorts() {
		names = append(names, port.String())
	}
	return names
}
