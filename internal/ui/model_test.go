// ABOUTME: Tests for TUI model and state management
// ABOUTME: Tests status updates, key handling and rendering per state
package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/quicksupport/quicksupport-go/internal/session"
)

func sized(m Model) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	model, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return model, cmd
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil, "http://localhost:8000/audio")

	if model.state != session.Idle {
		t.Errorf("expected Idle initially, got %s", model.state)
	}
	if model.volume != 100 {
		t.Errorf("expected default volume 100, got %d", model.volume)
	}
	if model.muted {
		t.Error("expected muted to be false initially")
	}
	if model.endpoint != "http://localhost:8000/audio" {
		t.Errorf("unexpected endpoint %q", model.endpoint)
	}
}

func TestViewLoadingBeforeSize(t *testing.T) {
	model := NewModel(nil, "")
	if got := model.View(); got != "Loading..." {
		t.Errorf("expected Loading..., got %q", got)
	}
}

func TestViewPerState(t *testing.T) {
	tests := []struct {
		state session.State
		want  string
	}{
		{session.Idle, "Press space to talk"},
		{session.Recording, "● REC"},
		{session.Processing, "Thinking"},
		{session.Playing, "♪ Playing"},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			model := sized(NewModel(nil, ""))
			model, _ = update(t, model, StatusMsg{State: tt.state})

			view := model.View()
			if !strings.Contains(view, "QuickSupport Agent") {
				t.Error("expected title in view")
			}
			if !strings.Contains(view, tt.want) {
				t.Errorf("expected %q in view:\n%s", tt.want, view)
			}
		})
	}
}

func TestSpaceSendsToggle(t *testing.T) {
	keys := []tea.KeyMsg{
		{Type: tea.KeySpace, Runes: []rune{' '}},
		{Type: tea.KeyEnter},
	}

	for _, key := range keys {
		t.Run(key.String(), func(t *testing.T) {
			controls := NewControls()
			model := NewModel(controls, "")

			update(t, model, key)

			select {
			case <-controls.Toggle:
			default:
				t.Error("expected toggle request")
			}
		})
	}
}

func TestToggleIgnoredWhileBusy(t *testing.T) {
	for _, state := range []session.State{session.Processing, session.Playing} {
		t.Run(state.String(), func(t *testing.T) {
			controls := NewControls()
			model := NewModel(controls, "")
			model, _ = update(t, model, StatusMsg{State: state})

			update(t, model, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

			select {
			case <-controls.Toggle:
				t.Error("expected no toggle while busy")
			default:
			}
		})
	}
}

func TestQuitKey(t *testing.T) {
	controls := NewControls()
	model := NewModel(controls, "")

	model, cmd := update(t, model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if !model.quitting {
		t.Error("expected quitting flag")
	}

	select {
	case <-controls.Quit:
	default:
		t.Error("expected quit on controls")
	}
}

func TestVolumeKeys(t *testing.T) {
	controls := NewControls()
	model := NewModel(controls, "")

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyDown})
	if model.volume != 95 {
		t.Errorf("expected volume 95, got %d", model.volume)
	}
	change := <-controls.Volume
	if change.Volume != 95 || change.Muted {
		t.Errorf("unexpected volume change %+v", change)
	}

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyUp})
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyUp})
	if model.volume != 100 {
		t.Errorf("expected volume clamped at 100, got %d", model.volume)
	}

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	if !model.muted {
		t.Error("expected muted after m")
	}
}

func TestProcessingStartsThinkingAnimation(t *testing.T) {
	model := sized(NewModel(nil, ""))

	model, cmd := update(t, model, StatusMsg{State: session.Processing})
	if cmd == nil {
		t.Fatal("expected tick command on entering Processing")
	}

	before := model.renderButton()
	model, cmd = update(t, model, thinkingMsg{gen: model.tickGen})
	if cmd == nil {
		t.Error("expected animation to keep ticking while processing")
	}
	if model.frame != 1 {
		t.Errorf("expected frame 1, got %d", model.frame)
	}
	if model.renderButton() == before {
		t.Error("expected animation frame to change the button")
	}

	model, _ = update(t, model, StatusMsg{State: session.Playing})
	_, cmd = update(t, model, thinkingMsg{gen: model.tickGen})
	if cmd != nil {
		t.Error("expected animation to stop after Processing")
	}
}

func TestStaleThinkingTickIgnored(t *testing.T) {
	model := NewModel(nil, "")
	model, _ = update(t, model, StatusMsg{State: session.Processing})

	model, cmd := update(t, model, thinkingMsg{gen: model.tickGen - 1})
	if cmd != nil {
		t.Error("expected stale tick to be dropped")
	}
	if model.frame != 0 {
		t.Errorf("expected frame unchanged, got %d", model.frame)
	}
}

func TestErrorShownUntilNextRecording(t *testing.T) {
	model := sized(NewModel(nil, ""))

	model, _ = update(t, model, StatusMsg{State: session.Idle, Error: "upload failed: HTTP 500"})
	if !strings.Contains(model.View(), "upload failed: HTTP 500") {
		t.Error("expected error in view")
	}

	model, _ = update(t, model, StatusMsg{State: session.Recording, SessionID: "abc"})
	if model.lastErr != "" {
		t.Errorf("expected error cleared on recording, got %q", model.lastErr)
	}
	if model.sessionID != "abc" {
		t.Errorf("expected session id abc, got %q", model.sessionID)
	}
}

func TestTruncateFunction(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is too long", 10, "this is..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.length); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
		}
	}
}

func TestRenderBar(t *testing.T) {
	if got := renderBar(50, 100, 10); got != "█████░░░░░" {
		t.Errorf("unexpected bar %q", got)
	}
}
