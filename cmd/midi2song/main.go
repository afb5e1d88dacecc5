// Package main is the entry point for midi2song CLI
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/james-see/midi2song/pkg/api"
	"github.com/james-see/midi2song/pkg/importer"
	"github.com/james-see/midi2song/pkg/project"
	"github.com/james-see/midi2song/pkg/smfseq"
	"github.com/james-see/midi2song/pkg/tui"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile    string
	soundFontPath string
	patchDir      string
	serverPort    int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "midi2song",
	Short: "Import MIDI files into a structured song project",
	Long: `midi2song translates Standard MIDI files (and RIFF/RMID containers)
into a structured song project: instrument tracks with note patterns,
automation tracks with parameter curves, and global tempo and
time-signature curves.

Examples:
  midi2song import song.mid -o song.project.json
  midi2song import song.mid --soundfont /usr/share/sounds/sf2/default.sf2
  midi2song inspect song.mid
  midi2song tui
  midi2song serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var importCmd = &cobra.Command{
	Use:   "import <input.mid>",
	Short: "Translate a MIDI file into a song project JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <input.mid>",
	Short: "Show the parsed generic sequence of a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&soundFontPath, "soundfont", "", "Default soundfont for imported instrument tracks")
	rootCmd.PersistentFlags().StringVar(&patchDir, "patch-dir", "", "Directory searched for NNN*.pat resources on program changes")

	// import command
	importCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output project file path")

	// serve command
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	// Add commands
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func getOutputPath(input, defaultExt string) string {
	if outputFile != "" {
		return outputFile
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + defaultExt
}

func runImport(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := getOutputPath(input, ".project.json")

	seq, err := smfseq.ReadFile(input)
	if err != nil {
		return err
	}

	proj := project.New(project.Options{
		SoundFontPath: soundFontPath,
		PatchDir:      patchDir,
	})
	res, err := importer.Translate(seq, proj, nil)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(proj, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return err
	}

	fmt.Printf("Imported %s -> %s\n", input, output)
	fmt.Printf("Tracks: %d instrument, %d automation; notes: %d\n",
		res.InstrumentTracks, res.AutomationTracks, res.Notes)
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s: %s\n", w.Code, w.Detail)
	}
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	input := args[0]

	seq, err := smfseq.ReadFile(input)
	if err != nil {
		return err
	}

	fmt.Printf("File: %s\n", input)
	fmt.Printf("Tracks: %d\n", len(seq.Tracks))
	fmt.Printf("Tempo map points: %d\n", len(seq.Map.Points))
	if seq.Map.HasLastTempo {
		fmt.Printf("Final tempo: %.1f BPM\n", seq.Map.LastTempo*60)
	}
	fmt.Printf("Time signature changes: %d\n", len(seq.Sigs))
	for _, sig := range seq.Sigs {
		fmt.Printf("  beat %g: %d/%d\n", sig.Beat, sig.Numerator, sig.Denominator)
	}

	for i, tr := range seq.Tracks {
		notes, updates := 0, 0
		name := ""
		for _, ev := range tr.Events {
			switch ev := ev.(type) {
			case importer.NoteEvent:
				notes++
			case importer.UpdateEvent:
				updates++
				if ev.Channel == -1 && ev.Attribute == "tracknames" {
					name = ev.Value.Str
				}
			}
		}
		if name != "" {
			fmt.Printf("Track %d (%s): %d notes, %d updates\n", i, name, notes, updates)
		} else {
			fmt.Printf("Track %d: %d notes, %d updates\n", i, notes, updates)
		}
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run()
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort, api.Config{
		SoundFontPath: soundFontPath,
		PatchDir:      patchDir,
	})
}
