// Package tui provides a terminal user interface for midi2song
package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/james-see/midi2song/pkg/importer"
	"github.com/james-see/midi2song/pkg/project"
	"github.com/james-see/midi2song/pkg/smfseq"
)

var (
	// Piano-roll palette: deep blue keys, amber highlights
	keyBlue    = lipgloss.Color("#2D7DD2")
	amber      = lipgloss.Color("#FFB30F")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(keyBlue).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(keyBlue).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(amber).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(keyBlue).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(amber)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(keyBlue).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateImporting
	StateResult
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	Action      string
}

var menuItems = []MenuItem{
	{Title: "Import MIDI", Description: "Translate a MIDI file into a song project (.project.json)", Action: "import"},
	{Title: "Inspect MIDI", Description: "Show the parsed sequence: tracks, events, tempo map", Action: "inspect"},
	{Title: "Exit", Description: "Exit the application", Action: ""},
}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	selectedFile string
	outputFile   string
	action       string
	summary      []string
	result       *importer.Result
	err          error
	width        int
	height       int
}

// importDoneMsg signals import completion
type importDoneMsg struct {
	outputFile string
	summary    []string
	result     *importer.Result
	err        error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model
func New() Model {
	// Initialize file picker
	fp := filepicker.New()
	fp.AllowedTypes = []string{".mid", ".midi", ".rmi"}
	fp.CurrentDirectory, _ = os.Getwd()

	// Initialize spinner
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(keyBlue)

	return Model{
		state:      StateMenu,
		menuIndex:  0,
		filePicker: fp,
		spinner:    s,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle file picker state first - it needs to receive all messages
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateImporting
			return m, tea.Batch(m.spinner.Tick, m.performImport())
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case importDoneMsg:
		m.state = StateResult
		m.outputFile = msg.outputFile
		m.summary = msg.summary
		m.result = msg.result
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		if m.menuIndex == len(menuItems)-1 {
			return m, tea.Quit
		}
		m.action = menuItems[m.menuIndex].Action
		m.state = StateFilePicker
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.selectedFile = ""
		m.outputFile = ""
		m.summary = nil
		m.result = nil
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) performImport() tea.Cmd {
	action := m.action
	input := m.selectedFile
	return func() tea.Msg {
		seq, err := smfseq.ReadFile(input)
		if err != nil {
			return importDoneMsg{err: err}
		}

		if action == "inspect" {
			return importDoneMsg{summary: sequenceSummary(seq)}
		}

		proj := project.New(project.Options{})
		res, err := importer.Translate(seq, proj, nil)
		if err != nil {
			return importDoneMsg{err: err}
		}

		data, err := json.MarshalIndent(proj, "", "  ")
		if err != nil {
			return importDoneMsg{err: err}
		}

		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputFile := base + ".project.json"
		if err := os.WriteFile(outputFile, data, 0644); err != nil {
			return importDoneMsg{err: err}
		}

		return importDoneMsg{outputFile: outputFile, result: res}
	}
}

func sequenceSummary(seq *importer.Sequence) []string {
	lines := []string{
		fmt.Sprintf("Tracks: %d", len(seq.Tracks)),
		fmt.Sprintf("Tempo map points: %d", len(seq.Map.Points)),
		fmt.Sprintf("Time signature changes: %d", len(seq.Sigs)),
	}
	for i, tr := range seq.Tracks {
		notes, updates := 0, 0
		for _, ev := range tr.Events {
			switch ev.(type) {
			case importer.NoteEvent:
				notes++
			case importer.UpdateEvent:
				updates++
			}
		}
		lines = append(lines, fmt.Sprintf("Track %d: %d notes, %d updates", i, notes, updates))
	}
	return lines
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	// Header
	header := asciiLogo()
	s.WriteString(header)
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateImporting:
		s.WriteString(m.viewImporting())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	// Footer help
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT ACTION "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(amber).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT MIDI FILE "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewImporting() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" IMPORTING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Importing %s...\n", m.spinner.View(), filepath.Base(m.selectedFile)))
	s.WriteString(statusStyle.Render("  MIDI → song project"))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Import failed: %s", m.err.Error())))
	} else if m.summary != nil {
		s.WriteString(titleStyle.Render(" SEQUENCE "))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("File: %s\n\n", filepath.Base(m.selectedFile)))
		for _, line := range m.summary {
			s.WriteString(line)
			s.WriteString("\n")
		}
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Import complete!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Input:  %s\n", filepath.Base(m.selectedFile)))
		s.WriteString(fmt.Sprintf("Output: %s\n", filepath.Base(m.outputFile)))
		if m.result != nil {
			s.WriteString(fmt.Sprintf("Tracks: %d instrument, %d automation\n",
				m.result.InstrumentTracks, m.result.AutomationTracks))
			s.WriteString(fmt.Sprintf("Notes:  %d\n", m.result.Notes))
			if len(m.result.Warnings) > 0 {
				s.WriteString(warningStyle.Render(fmt.Sprintf("Warnings: %d", len(m.result.Warnings))))
				s.WriteString("\n")
			}
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
   __  __ ___ ____ ___ ____  ____   ___  _   _  ____
  |  \/  |_ _|  _ \_ _|___ \/ ___| / _ \| \ | |/ ___|
  | |\/| || || | | | |  __) \___ \| | | |  \| | |  _
  | |  | || || |_| | | / __/ ___) | |_| | |\  | |_| |
  |_|  |_|___|____/___|_____|____/ \___/|_| \_|\____|
`
	return lipgloss.NewStyle().Foreground(keyBlue).Render(logo)
}

// Run starts the TUI application
func Run() error {
	p := tea.NewProgram(New(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
