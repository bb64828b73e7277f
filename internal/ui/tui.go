// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program and the channels it reports key presses on
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/quicksupport/quicksupport-go/internal/session"
)

// ToggleMsg asks the session to start or stop recording
type ToggleMsg struct{}

// VolumeChangeMsg carries a new playback volume
type VolumeChangeMsg struct {
	Volume int
	Muted  bool
}

// QuitMsg asks the application to exit
type QuitMsg struct{}

// Controls holds channels for user input leaving the TUI
type Controls struct {
	Toggle chan ToggleMsg
	Volume chan VolumeChangeMsg
	Quit   chan QuitMsg
}

// NewControls creates a new control handler
func NewControls() *Controls {
	return &Controls{
		Toggle: make(chan ToggleMsg, 1),
		Volume: make(chan VolumeChangeMsg, 10),
		Quit:   make(chan QuitMsg, 1),
	}
}

// NewModel creates a new TUI model
func NewModel(controls *Controls, endpoint string) Model {
	return Model{
		state:    session.Idle,
		volume:   100,
		endpoint: endpoint,
		controls: controls,
	}
}

// Run creates the TUI program; the caller runs it
func Run(controls *Controls, endpoint string) *tea.Program {
	return tea.NewProgram(NewModel(controls, endpoint), tea.WithAltScreen())
}
