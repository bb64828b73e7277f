// ABOUTME: Bubbletea model for the voice agent TUI
// ABOUTME: Renders the record toggle and forwards key presses as controls
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/quicksupport/quicksupport-go/internal/session"
)

const thinkingInterval = 300 * time.Millisecond

// Model represents the TUI state
type Model struct {
	// Session
	state     session.State
	sessionID string
	lastErr   string
	endpoint  string

	// Thinking animation
	frame   int
	tickGen int

	// Playback
	volume int
	muted  bool

	controls *Controls
	quitting bool

	// Dimensions
	width  int
	height int
}

// StatusMsg updates TUI state
type StatusMsg struct {
	State     session.State
	SessionID string
	Error     string
	Endpoint  string
}

// thinkingMsg advances the processing animation
type thinkingMsg struct {
	gen int
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

	recStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	thinkingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	playingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("160"))

	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)
)

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
	case StatusMsg:
		return m.applyStatus(msg)
	case thinkingMsg:
		if msg.gen != m.tickGen || m.state != session.Processing {
			return m, nil
		}
		m.frame++
		return m, tickThinking(m.tickGen)
	}

	return m, nil
}

func tickThinking(gen int) tea.Cmd {
	return tea.Tick(thinkingInterval, func(time.Time) tea.Msg {
		return thinkingMsg{gen: gen}
	})
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("QuickSupport Agent"))
	b.WriteString("\n\n")

	b.WriteString(buttonStyle.Render(m.renderButton()))
	b.WriteString("\n\n")

	if m.endpoint != "" {
		b.WriteString(headerStyle.Render("Endpoint: "))
		b.WriteString(valueStyle.Render(m.endpoint))
		b.WriteString("\n")
	}
	if m.sessionID != "" {
		b.WriteString(headerStyle.Render("Session:  "))
		b.WriteString(valueStyle.Render(truncate(m.sessionID, 36)))
		b.WriteString("\n")
	}

	muteIcon := ""
	if m.muted {
		muteIcon = " 🔇"
	}
	b.WriteString(headerStyle.Render("Volume:   "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("[%s] %d%%%s", renderBar(m.volume, 100, 10), m.volume, muteIcon)))
	b.WriteString("\n")

	if m.lastErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.lastErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Faint(true).Render("space:Talk  ↑/↓:Volume  m:Mute  q:Quit"))

	return b.String()
}

// renderButton renders the toggle for the current state
func (m Model) renderButton() string {
	switch m.state {
	case session.Recording:
		return recStyle.Render("● REC")
	case session.Processing:
		dots := strings.Repeat(".", m.frame%3+1)
		return thinkingStyle.Render(fmt.Sprintf("Thinking%-3s", dots))
	case session.Playing:
		return playingStyle.Render("♪ Playing")
	default:
		return valueStyle.Render("○ Press space to talk")
	}
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		if m.controls != nil {
			select {
			case m.controls.Quit <- QuitMsg{}:
			default:
			}
		}
		return m, tea.Quit
	case " ", "enter":
		if m.state.Busy() {
			return m, nil
		}
		if m.controls != nil {
			select {
			case m.controls.Toggle <- ToggleMsg{}:
			default:
			}
		}
	case "up":
		if m.volume < 100 {
			m.volume += 5
			if m.volume > 100 {
				m.volume = 100
			}
			m.sendVolume()
		}
	case "down":
		if m.volume > 0 {
			m.volume -= 5
			if m.volume < 0 {
				m.volume = 0
			}
			m.sendVolume()
		}
	case "m":
		m.muted = !m.muted
		m.sendVolume()
	}

	return m, nil
}

func (m Model) sendVolume() {
	if m.controls == nil {
		return
	}
	select {
	case m.controls.Volume <- VolumeChangeMsg{Volume: m.volume, Muted: m.muted}:
	default:
	}
}

// applyStatus updates model from status message
func (m Model) applyStatus(msg StatusMsg) (tea.Model, tea.Cmd) {
	entering := msg.State != m.state
	m.state = msg.State

	if msg.SessionID != "" {
		m.sessionID = msg.SessionID
	}
	if msg.Endpoint != "" {
		m.endpoint = msg.Endpoint
	}
	if msg.Error != "" {
		m.lastErr = msg.Error
	} else if entering && msg.State == session.Recording {
		m.lastErr = ""
	}

	if entering && msg.State == session.Processing {
		m.frame = 0
		m.tickGen++
		return m, tickThinking(m.tickGen)
	}
	return m, nil
}

// Utility functions
func renderBar(value, max, width int) string {
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

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
