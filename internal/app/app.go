// ABOUTME: Main application orchestration
// ABOUTME: Wires capture, upload, playback, session, TUI and status feed together
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/quicksupport/quicksupport-go/internal/discovery"
	"github.com/quicksupport/quicksupport-go/internal/session"
	"github.com/quicksupport/quicksupport-go/internal/statusfeed"
	"github.com/quicksupport/quicksupport-go/internal/ui"
	"github.com/quicksupport/quicksupport-go/internal/upload"
	"github.com/quicksupport/quicksupport-go/pkg/audio/capture"
	"github.com/quicksupport/quicksupport-go/pkg/audio/output"
	"github.com/quicksupport/quicksupport-go/pkg/audio/playback"
)

// Config holds application configuration
type Config struct {
	Endpoint        string
	Timeout         time.Duration
	SampleRate      int
	Channels        int
	Input           string
	OutputBackend   string
	Discover        bool
	DiscoverTimeout time.Duration
	StatusAddr      string
	UseTUI          bool

	// Stdin toggles the session on each line when the TUI is disabled
	Stdin io.Reader

	// Recorder and Output replace the devices built from the settings above
	Recorder capture.Recorder
	Output   output.Output
}

// App is the voice agent application
type App struct {
	config   Config
	controls *ui.Controls
	feed     *statusfeed.Feed

	session *session.Session
	player  *playback.Player
	tuiProg *tea.Program
}

// New creates a new application
func New(config Config) *App {
	a := &App{
		config:   config,
		controls: ui.NewControls(),
	}
	if config.StatusAddr != "" {
		a.feed = statusfeed.New()
	}
	return a
}

// Run starts the application and blocks until ctx is done or the user quits
func (a *App) Run(ctx context.Context) error {
	endpoint := a.resolveEndpoint(ctx)
	log.Printf("Using endpoint %s", endpoint)

	out := a.config.Output
	if out == nil {
		var err error
		out, err = output.New(a.config.OutputBackend)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
	}
	a.player = playback.NewPlayer(out, playback.DefaultConfig())

	rec := a.config.Recorder
	if rec == nil {
		rec = a.newRecorder()
	}

	a.session = session.New(session.Config{
		Recorder: rec,
		Uploader: upload.NewClient(upload.Config{
			Endpoint: endpoint,
			Timeout:  a.config.Timeout,
		}),
		Player:        a.player,
		Library:       playback.NewLibrary(),
		OnStateChange: a.handleStateChange,
		OnError:       a.handleError,
	})

	if a.feed != nil {
		if err := a.feed.Start(a.config.StatusAddr); err != nil {
			return fmt.Errorf("failed to start status feed: %w", err)
		}
	}

	if a.config.UseTUI {
		a.tuiProg = ui.Run(a.controls, endpoint)
		go func() {
			if _, err := a.tuiProg.Run(); err != nil {
				log.Printf("TUI error: %v", err)
			}
			select {
			case a.controls.Quit <- ui.QuitMsg{}:
			default:
			}
		}()
	} else if a.config.Stdin != nil {
		log.Printf("Press Enter to start or stop recording")
		go a.readStdin(ctx)
	}

	a.loop(ctx)
	a.shutdown()
	return nil
}

// resolveEndpoint applies discovery when no endpoint is configured
func (a *App) resolveEndpoint(ctx context.Context) string {
	if a.config.Endpoint != "" {
		return a.config.Endpoint
	}
	if a.config.Discover {
		timeout := a.config.DiscoverTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		ep, err := discovery.Lookup(ctx, timeout)
		if err == nil {
			return ep.URL()
		}
		log.Printf("Endpoint discovery failed: %v", err)
	}
	return upload.DefaultEndpoint
}

func (a *App) newRecorder() capture.Recorder {
	if a.config.Input != "" {
		log.Printf("Using recording file %s", a.config.Input)
		return capture.NewFile(a.config.Input)
	}

	cfg := capture.DefaultConfig()
	if a.config.SampleRate > 0 {
		cfg.SampleRate = a.config.SampleRate
	}
	if a.config.Channels > 0 {
		cfg.Channels = a.config.Channels
	}
	return capture.NewMalgo(cfg)
}

// loop dispatches controls until quit
func (a *App) loop(ctx context.Context) {
	for {
		select {
		case <-a.controls.Toggle:
			if err := a.session.Toggle(ctx); err != nil && !errors.Is(err, session.ErrBusy) {
				log.Printf("Toggle failed: %v", err)
			}

		case vol := <-a.controls.Volume:
			log.Printf("Volume change: %d%%, muted=%v", vol.Volume, vol.Muted)
			a.player.SetVolume(vol.Volume)
			a.player.SetMuted(vol.Muted)

		case <-a.controls.Quit:
			log.Printf("Received quit signal from TUI")
			return

		case <-ctx.Done():
			log.Printf("Shutdown signal received")
			return
		}
	}
}

// readStdin turns each input line into a toggle
func (a *App) readStdin(ctx context.Context) {
	scanner := bufio.NewScanner(a.config.Stdin)
	for scanner.Scan() {
		select {
		case a.controls.Toggle <- ui.ToggleMsg{}:
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) handleStateChange(state session.State) {
	id := a.session.ID()
	a.updateTUI(ui.StatusMsg{State: state, SessionID: id})
	a.publish(statusfeed.Event{State: state.String(), Session: id})
}

func (a *App) handleError(err error) {
	log.Printf("Session error: %v", err)

	state := a.session.State()
	id := a.session.ID()
	a.updateTUI(ui.StatusMsg{State: state, SessionID: id, Error: describe(err)})
	a.publish(statusfeed.Event{State: state.String(), Session: id, Error: describe(err)})
}

func (a *App) updateTUI(msg ui.StatusMsg) {
	if a.tuiProg != nil {
		a.tuiProg.Send(msg)
	}
}

func (a *App) publish(ev statusfeed.Event) {
	if a.feed != nil {
		a.feed.Publish(ev)
	}
}

// shutdown releases every component
func (a *App) shutdown() {
	if err := a.session.Close(); err != nil {
		log.Printf("Error closing session: %v", err)
	}
	if err := a.player.Close(); err != nil {
		log.Printf("Error closing output: %v", err)
	}

	if a.feed != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.feed.Stop(ctx); err != nil {
			log.Printf("Status feed shutdown error: %v", err)
		}
	}

	if a.tuiProg != nil {
		a.tuiProg.Quit()
	}
	log.Printf("Agent stopped")
}
