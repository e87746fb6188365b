package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"acidloop/engine"
	"acidloop/patch"
	"acidloop/theme"
	"acidloop/widgets"
)

// SnapshotMsg wraps an engine frame for bubbletea.
type SnapshotMsg engine.Snapshot

// EngineStoppedMsg arrives when the playback goroutine returns.
type EngineStoppedMsg struct {
	Err error
}

type keyMap struct {
	TempoUp   key.Binding
	TempoDown key.Binding
	Slots     key.Binding
	Quit      key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Slots, k.TempoUp, k.TempoDown, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Slots, k.TempoUp, k.TempoDown, k.Quit}}
}

func defaultKeyMap() keyMap {
	return keyMap{
		TempoUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "tempo up"),
		),
		TempoDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "tempo down"),
		),
		Slots: key.NewBinding(
			key.WithKeys(strings.Split(patch.SlotKeys, "")...),
			key.WithHelp("q-m", "switch pattern"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// Model renders the looper: patch list, controls, now-playing line, BPM
// footer. It never touches playback state directly - all input goes to the
// engine as events, all display state comes back as snapshots.
type Model struct {
	Store  *patch.Store
	Engine *engine.Engine
	Theme  *theme.Theme

	keys keyMap
	help help.Model

	snap     engine.Snapshot
	entries  []patch.SlotEntry
	width    int
	quitting bool
	err      error
}

func NewModel(store *patch.Store, eng *engine.Engine, th *theme.Theme) Model {
	return Model{
		Store:   store,
		Engine:  eng,
		Theme:   th,
		keys:    defaultKeyMap(),
		help:    help.New(),
		entries: store.AllBySlot(),
	}
}

// ListenForSnapshots blocks on the engine's snapshot channel.
func ListenForSnapshots(eng *engine.Engine) tea.Cmd {
	return func() tea.Msg {
		return SnapshotMsg(<-eng.Snapshots())
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForSnapshots(m.Engine)
}

// send forwards an operator event without ever blocking the UI loop.
func (m Model) send(ev engine.Event) {
	select {
	case m.Engine.Events() <- ev:
	default:
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.send(engine.Event{Type: engine.EventQuit})
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.TempoUp):
			m.send(engine.Event{Type: engine.EventTempoUp})

		case key.Matches(msg, m.keys.TempoDown):
			m.send(engine.Event{Type: engine.EventTempoDown})

		default:
			// Slot keys select patterns; anything else is ignored.
			r := []rune(strings.ToLower(msg.String()))
			if len(r) == 1 && strings.ContainsRune(patch.SlotKeys, r[0]) {
				m.send(engine.Event{Type: engine.EventSelectSlot, Slot: r[0]})
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.send(engine.Event{Type: engine.EventResize})

	case SnapshotMsg:
		m.snap = engine.Snapshot(msg)
		if m.snap.Redraw {
			m.entries = m.Store.AllBySlot()
		}
		return m, ListenForSnapshots(m.Engine)

	case EngineStoppedMsg:
		if !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
		}
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// Err reports why the engine stopped, if it stopped on its own.
func (m Model) Err() error {
	return m.err
}

func (m Model) View() string {
	if m.quitting {
		if m.err != nil {
			return m.Theme.Error().Render(fmt.Sprintf("acidloop stopped: %v", m.err)) + "\n"
		}
		return "acid looper stopped\n"
	}

	var b strings.Builder

	b.WriteString(m.Theme.Header().Render("ACID LOOPER — T-8 DYNAMIC EDITION"))
	b.WriteString("\n\n")

	b.WriteString(m.Theme.Border().Render(m.patchList()))
	b.WriteString("\n")
	b.WriteString(m.Theme.Border().Render(m.nowPlaying()))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	b.WriteString(m.footer())
	b.WriteString("\n")

	return b.String()
}

func (m Model) patchList() string {
	if len(m.entries) == 0 {
		return m.Theme.Error().Render("no patches found in patch directory")
	}

	lines := make([]string, 0, len(m.entries))
	for _, entry := range m.entries {
		marker := ' '
		style := m.Theme.Plain()
		switch entry.Key {
		case m.snap.CurrentSlot:
			marker = m.Theme.Symbols.Current
			style = m.Theme.Current()
		case m.snap.QueuedSlot:
			marker = m.Theme.Symbols.Queued
			style = m.Theme.Queued()
		}
		desc := entry.Pattern.Description
		if len(desc) > 30 {
			desc = desc[:30]
		}
		line := fmt.Sprintf("%c [%c]  %-25s %s", marker, entry.Key, entry.Pattern.Name, desc)
		lines = append(lines, style.Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) nowPlaying() string {
	p, ok := m.Store.ByID(m.snap.CurrentID)
	if !ok || m.snap.TotalSteps == 0 {
		return m.Theme.Muted().Render("waiting for playback...")
	}
	return widgets.StatusLine(p, m.snap.StepIndex, m.snap.BassPitch, m.snap.BassVelocity, m.snap.DrumHits)
}

func (m Model) footer() string {
	name := m.snap.CurrentID
	if p, ok := m.Store.ByID(m.snap.CurrentID); ok {
		name = p.Name
	}
	footer := m.Theme.Current().Render(fmt.Sprintf("BPM: %3d  │  Patch: %s", m.snap.TempoBPM, name))
	if m.snap.QueuedID != "" {
		footer += m.Theme.Queued().Render(fmt.Sprintf("  │  next: %s", m.snap.QueuedID))
	}
	return footer
}
