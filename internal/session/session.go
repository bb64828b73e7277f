// ABOUTME: Voice session state machine
// ABOUTME: Sequences capture, decode, encode, upload and playback for the toggle
package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/quicksupport/quicksupport-go/pkg/audio"
	"github.com/quicksupport/quicksupport-go/pkg/audio/capture"
	"github.com/quicksupport/quicksupport-go/pkg/audio/decode"
	"github.com/quicksupport/quicksupport-go/pkg/audio/playback"
	"github.com/quicksupport/quicksupport-go/pkg/audio/wav"
)

var (
	// ErrBusy is returned by Toggle while processing or playing
	ErrBusy = errors.New("session busy")
	// ErrClosed is returned by Toggle after Close
	ErrClosed = errors.New("session closed")
)

// Uploader sends a waveform and returns the reply audio
type Uploader interface {
	Upload(ctx context.Context, data []byte) ([]byte, error)
}

// Player plays clips
type Player interface {
	Play(ctx context.Context, clip *playback.Clip) error
	Stop()
	Done() <-chan struct{}
	Err() error
}

// Config holds the session collaborators
type Config struct {
	Recorder capture.Recorder
	Uploader Uploader
	Player   Player
	Library  *playback.Library

	// Decode defaults to decode.Decode
	Decode func(blob audio.Blob) (*audio.DecodedBuffer, error)

	OnStateChange func(State)
	OnError       func(error)
}

// Session is a single-user voice interaction
type Session struct {
	config Config
	decode func(blob audio.Blob) (*audio.DecodedBuffer, error)

	mu      sync.Mutex
	state   State
	id      string
	lastErr error
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an idle session
func New(config Config) *Session {
	ctx, cancel := context.WithCancel(context.Background())

	decodeFn := config.Decode
	if decodeFn == nil {
		decodeFn = decode.Decode
	}
	if config.Library == nil {
		config.Library = playback.NewLibrary()
	}

	return &Session{
		config: config,
		decode: decodeFn,
		state:  Idle,
		ctx:    ctx,
		cancel: cancel,
	}
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ID returns the id of the current or last run
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// LastError returns the error that ended the last run, if any
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Toggle starts recording when idle and stops it when recording. The
// recorded audio is then processed on a worker goroutine. Toggle returns
// ErrBusy while processing or playing.
func (s *Session) Toggle(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	switch s.state {
	case Idle:
		return s.startRecording()
	case Recording:
		return s.stopRecording()
	default:
		state := s.state
		s.mu.Unlock()
		log.Printf("Toggle ignored while %s", state)
		return ErrBusy
	}
}

// startRecording is called with s.mu held and releases it
func (s *Session) startRecording() error {
	s.config.Library.Release()

	if err := s.config.Recorder.Start(s.ctx); err != nil {
		s.lastErr = err
		s.mu.Unlock()
		log.Printf("Failed to start recording: %v", err)
		s.reportError(err)
		return err
	}

	s.id = uuid.New().String()
	s.lastErr = nil
	s.state = Recording
	id := s.id
	s.mu.Unlock()

	log.Printf("Session %s: recording", id)
	s.notify(Recording)
	return nil
}

// stopRecording is called with s.mu held and releases it
func (s *Session) stopRecording() error {
	id := s.id

	blob, err := s.config.Recorder.Stop()
	if err != nil {
		s.state = Idle
		s.lastErr = err
		s.mu.Unlock()
		log.Printf("Session %s: failed to stop recording: %v", id, err)
		s.notify(Idle)
		s.reportError(err)
		return err
	}

	s.state = Processing
	s.wg.Add(1)
	s.mu.Unlock()

	log.Printf("Session %s: processing %d bytes (%s)", id, len(blob.Data), blob.Format)
	s.notify(Processing)

	go s.process(id, blob)
	return nil
}

// process runs decode, encode, upload and playback for one recording
func (s *Session) process(id string, blob audio.Blob) {
	defer s.wg.Done()

	buf, err := s.decode(blob)
	if err != nil {
		s.fail(id, "decode", err)
		return
	}

	data := wav.Encode(buf)
	log.Printf("Session %s: encoded %d frames as %d bytes", id, buf.Length(), len(data))

	reply, err := s.config.Uploader.Upload(s.ctx, data)
	if err != nil {
		s.fail(id, "upload", err)
		return
	}

	clip, err := s.config.Library.Create(reply)
	if err != nil {
		s.fail(id, "reply decode", err)
		return
	}

	if err := s.config.Player.Play(s.ctx, clip); err != nil {
		s.fail(id, "playback", err)
		return
	}
	done := s.config.Player.Done()

	if !s.transition(id, Processing, Playing) {
		s.config.Player.Stop()
		return
	}
	log.Printf("Session %s: playing %s", id, clip.URL())

	<-done

	if err := s.config.Player.Err(); err != nil {
		s.fail(id, "playback", err)
		return
	}
	if s.transition(id, Playing, Idle) {
		log.Printf("Session %s: complete", id)
	}
}

// transition moves from one state to another if run id is still current
func (s *Session) transition(id string, from, to State) bool {
	s.mu.Lock()
	if s.closed || s.id != id || s.state != from {
		s.mu.Unlock()
		return false
	}
	s.state = to
	s.mu.Unlock()

	s.notify(to)
	return true
}

// fail returns the run to idle and reports err
func (s *Session) fail(id, step string, err error) {
	if s.ctx.Err() != nil {
		log.Printf("Session %s: %s aborted: %v", id, step, err)
		return
	}

	s.mu.Lock()
	if s.closed || s.id != id {
		s.mu.Unlock()
		return
	}
	s.state = Idle
	s.lastErr = err
	s.mu.Unlock()

	log.Printf("Session %s: %s failed: %v", id, step, err)
	s.notify(Idle)
	s.reportError(err)
}

func (s *Session) notify(state State) {
	if s.config.OnStateChange != nil {
		s.config.OnStateChange(state)
	}
}

func (s *Session) reportError(err error) {
	if s.config.OnError != nil {
		s.config.OnError(err)
	}
}

// Close stops capture and playback, waits for the worker and releases
// the live clip
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	wasRecording := s.state == Recording
	s.mu.Unlock()

	s.cancel()
	s.config.Player.Stop()

	if wasRecording {
		if _, err := s.config.Recorder.Stop(); err != nil {
			log.Printf("Failed to stop recording on close: %v", err)
		}
	}

	s.wg.Wait()
	s.config.Library.Release()

	s.mu.Lock()
	s.state = Idle
	s.mu.Unlock()

	return s.config.Recorder.Close()
}
