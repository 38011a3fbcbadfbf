// ABOUTME: Bubbletea model for the hearing test TUI
// ABOUTME: Maps key presses to controller commands and renders snapshots
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hearcheck/hearcheck-go/pkg/audio"
	"github.com/hearcheck/hearcheck-go/pkg/hearing"
)

// Commander accepts controller events
type Commander interface {
	Send(ev hearing.Event) bool
}

// Model represents the TUI state
type Model struct {
	commander Commander
	mode      hearing.Mode
	snap      hearing.Snapshot
	quitting  bool
	quitChan  chan struct{}

	// Dimensions
	width  int
	height int
}

// SnapshotMsg delivers a new session snapshot
type SnapshotMsg hearing.Snapshot

// NewModel creates a model that sends commands to commander
func NewModel(commander Commander, mode hearing.Mode, snap hearing.Snapshot) Model {
	return Model{
		commander: commander,
		mode:      mode,
		snap:      snap,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case SnapshotMsg:
		m.snap = hearing.Snapshot(msg)
	}

	return m, nil
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		if m.quitChan != nil {
			select {
			case m.quitChan <- struct{}{}:
			default:
			}
		}
		return m, tea.Quit
	case "1", "2", "3", "4":
		if m.snap.Status != hearing.StatusRunning.String() {
			m.mode = hearing.Modes[int(key[0]-'1')]
		}
		return m, nil
	case "tab":
		if m.snap.Status != hearing.StatusRunning.String() {
			m.mode = hearing.Modes[(int(m.mode)+1)%len(hearing.Modes)]
		}
		return m, nil
	}

	if ev, ok := keyEvent(key, m.mode); ok {
		m.send(ev)
	}
	return m, nil
}

// keyEvent maps a key to its controller command
func keyEvent(key string, mode hearing.Mode) (hearing.Event, bool) {
	switch key {
	case "s", "enter":
		return hearing.Start{Mode: mode}, true
	case "up", "+", "=":
		return hearing.Increase{}, true
	case "down", "-":
		return hearing.Decrease{}, true
	case "p", " ":
		return hearing.Play{}, true
	case "h", "y":
		return hearing.Heard{}, true
	case "n":
		return hearing.NotHeard{}, true
	case "left", "l":
		return hearing.ChooseLeft{}, true
	case "right", "r":
		return hearing.ChooseRight{}, true
	case "esc", "backspace":
		return hearing.Home{}, true
	}
	return nil, false
}

// send delivers ev on the update loop so commands keep key order
func (m Model) send(ev hearing.Event) {
	if m.commander != nil {
		m.commander.Send(ev)
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	resultStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	faintStyle = lipgloss.NewStyle().Faint(true)
)

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Stopping test...\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Hearcheck"))
	b.WriteString("\n\n")

	m.field(&b, "Mode: ", m.modeLine())
	m.field(&b, "Status: ", m.statusLine())

	if m.snap.Status == hearing.StatusRunning.String() {
		m.field(&b, "Step: ", fmt.Sprintf("%d/%d", m.snap.StepIndex+1, m.snap.Total))
		m.field(&b, "Frequency: ", formatFrequency(m.snap.Frequency))
		m.field(&b, "Amplitude: ", fmt.Sprintf("[%s] %d", renderBar(m.snap.Amplitude, audio.MaxAmplitude, 20), m.snap.Amplitude))
	} else {
		m.field(&b, "Frequency: ", "-")
		m.field(&b, "Amplitude: ", "-")
	}

	if m.snap.LastError != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Audio error: " + m.snap.LastError))
		b.WriteString("\n")
	}

	if len(m.snap.Lines) > 0 {
		b.WriteString("\n")
		b.WriteString(resultStyle.Render("Results"))
		b.WriteString("\n")
		for _, line := range m.snap.Lines {
			b.WriteString(valueStyle.Render("  " + line))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) field(b *strings.Builder, name, value string) {
	b.WriteString(headerStyle.Render(name))
	b.WriteString(valueStyle.Render(value))
	b.WriteString("\n")
}

func (m Model) modeLine() string {
	if m.snap.Status == hearing.StatusRunning.String() {
		mode, err := hearing.ParseMode(m.snap.Mode)
		if err == nil {
			return mode.Title()
		}
		return m.snap.Mode
	}
	return fmt.Sprintf("%s (1-4 or tab to change)", m.mode.Title())
}

func (m Model) statusLine() string {
	if m.snap.Status == hearing.StatusRunning.String() {
		return fmt.Sprintf("%s, %s", m.snap.Status, m.snap.State)
	}
	return m.snap.Status
}

// renderHelp lists the keys, dimming commands that are disabled
func (m Model) renderHelp() string {
	ctl := m.snap.Controls
	keys := []struct {
		label   string
		enabled bool
	}{
		{"s:Start", ctl.Start},
		{"↑/↓:Amplitude", ctl.Increase || ctl.Decrease},
		{"p:Play", ctl.Play},
		{"h:Heard", ctl.Heard},
		{"n:Not heard", ctl.NotHeard},
		{"←/→:Left/Right", ctl.ChooseLeft || ctl.ChooseRight},
		{"esc:Home", ctl.Home},
		{"q:Quit", true},
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k.enabled {
			parts = append(parts, k.label)
		} else {
			parts = append(parts, faintStyle.Render(k.label))
		}
	}
	return strings.Join(parts, "  ")
}

// Utility functions
func renderBar(value, max, width int) string {
	if max <= 0 {
		return strings.Repeat("░", width)
	}
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func formatFrequency(hz int) string {
	if hz <= 0 {
		return "-"
	}
	return fmt.Sprintf("%dHz", hz)
}
