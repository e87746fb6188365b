// Package main is the entry point for the acidloop CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"acidloop/config"
	"acidloop/debug"
	"acidloop/engine"
	"acidloop/midi"
	"acidloop/patch"
	"acidloop/theme"
	"acidloop/tui"
)

var (
	flagDebug      bool
	flagPatchesDir string
	flagPort       string
	flagGenRoot    int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "acidloop",
	Short: "Acid bassline looper for hardware synths",
	Long: `acidloop drives a bass line and drum kit on an external synth over MIDI,
with live pattern switching and hot-reload of patch files on disk.

Patch files are JSON or YAML documents in the patch directory; edits show up
within a second without interrupting playback. Pattern switches land at loop
boundaries, never mid-pass.

Examples:
  acidloop play
  acidloop play --dir ./patches --port T-8
  acidloop ports
  acidloop gen techno64.json`,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run the looper",
	RunE:  runPlay,
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List available MIDI output ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := midi.PortNames()
		if len(names) == 0 {
			fmt.Println("no MIDI output ports found")
			return nil
		}
		for _, name := range names {
			fmt.Printf("  - %s\n", name)
		}
		return nil
	},
}

var genCmd = &cobra.Command{
	Use:   "gen <output-file>",
	Short: "Write the built-in 64-step techno pattern as a patch file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		name := filepath.Base(path)
		name = name[:len(name)-len(filepath.Ext(name))]
		if flagGenRoot < 0 || flagGenRoot > 127 {
			return fmt.Errorf("bass root %d out of MIDI range", flagGenRoot)
		}
		if err := patch.WriteGenerated(path, name, uint8(flagGenRoot)); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log to ~/.config/acidloop/debug.log")

	playCmd.Flags().StringVar(&flagPatchesDir, "dir", "", "Patch directory (overrides config)")
	playCmd.Flags().StringVar(&flagPort, "port", "", "MIDI port name substring (overrides config)")

	genCmd.Flags().IntVar(&flagGenRoot, "root", 33, "Bass root note for the generated pattern")

	rootCmd.AddCommand(playCmd, portsCmd, genCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	if flagDebug {
		if err := debug.Enable(); err != nil {
			return err
		}
		defer debug.Disable()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagPatchesDir != "" {
		cfg.PatchesDir = flagPatchesDir
	}
	if flagPort != "" {
		cfg.PortMatch = flagPort
	}

	player, err := midi.NewPlayer(cfg.PortMatch, cfg.BassChannel, cfg.DrumChannel)
	if err != nil {
		return err
	}
	defer player.Close()

	store := patch.NewStore(cfg.PatchesDir)
	tempo := engine.NewTempo(cfg.InitialBPM)
	eng := engine.New(store, tempo, player)

	th := theme.New(theme.LoadOrDefault(cfg.PalettePath))
	m := tui.NewModel(store, eng, th)
	p := tea.NewProgram(m, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		err := eng.Run(ctx)
		p.Send(tui.EngineStoppedMsg{Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(tui.Model); ok {
		return m.Err()
	}
	return nil
}
