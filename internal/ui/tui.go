// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and forwards runner snapshots
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hearcheck/hearcheck-go/pkg/hearing"
)

// TUI manages the hearing test TUI
type TUI struct {
	program  *tea.Program
	updates  chan hearing.Snapshot
	quitChan chan struct{}
}

// NewTUI creates a TUI sending commands to commander
func NewTUI(commander Commander, mode hearing.Mode, snap hearing.Snapshot) *TUI {
	t := &TUI{
		updates:  make(chan hearing.Snapshot, 10),
		quitChan: make(chan struct{}, 1),
	}

	m := NewModel(commander, mode, snap)
	m.quitChan = t.quitChan
	t.program = tea.NewProgram(m, tea.WithAltScreen())

	return t
}

// Run runs the TUI until the user quits
func (t *TUI) Run() error {
	go func() {
		for snap := range t.updates {
			t.program.Send(SnapshotMsg(snap))
		}
	}()

	_, err := t.program.Run()
	return err
}

// Update sends a snapshot to the TUI
func (t *TUI) Update(snap hearing.Snapshot) {
	select {
	case t.updates <- snap:
	default:
		// TUI is behind: drop the oldest so the latest state always lands
		select {
		case <-t.updates:
		default:
		}
		select {
		case t.updates <- snap:
		default:
		}
	}
}

// Stop stops the TUI
func (t *TUI) Stop() {
	t.program.Quit()
}

// QuitChan returns the channel that signals when user wants to quit
func (t *TUI) QuitChan() <-chan struct{} {
	return t.quitChan
}
