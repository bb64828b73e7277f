// ABOUTME: Recorder interface and capture errors
// ABOUTME: Shared fragment accumulation for capture backends
package capture

import (
	"context"
	"errors"
	"sync"

	"github.com/quicksupport/quicksupport-go/pkg/audio"
)

var (
	// ErrPermissionDenied is returned when the microphone cannot be opened
	ErrPermissionDenied = errors.New("microphone access denied")
	// ErrAlreadyRecording is returned by Start during a recording
	ErrAlreadyRecording = errors.New("already recording")
	// ErrNotRecording is returned by Stop without a recording
	ErrNotRecording = errors.New("not recording")
)

// Recorder captures one recording at a time
type Recorder interface {
	// Start begins capturing
	Start(ctx context.Context) error

	// Stop ends capturing and returns the concatenated recording
	Stop() (audio.Blob, error)

	// Recording reports whether a capture is active
	Recording() bool

	// Close releases the capture device
	Close() error
}

// Config holds capture format settings
type Config struct {
	SampleRate int
	Channels   int
}

// DefaultConfig returns 48kHz mono
func DefaultConfig() Config {
	return Config{
		SampleRate: 48000,
		Channels:   1,
	}
}

// fragments accumulates device buffers between Start and Stop
type fragments struct {
	mu    sync.Mutex
	parts [][]byte
	size  int
}

// add copies p as a new fragment; empty buffers are ignored
func (f *fragments) add(p []byte) {
	if len(p) == 0 {
		return
	}
	part := make([]byte, len(p))
	copy(part, p)

	f.mu.Lock()
	f.parts = append(f.parts, part)
	f.size += len(part)
	f.mu.Unlock()
}

// take concatenates and clears the fragments
func (f *fragments) take() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	data := make([]byte, 0, f.size)
	for _, part := range f.parts {
		data = append(data, part...)
	}
	f.parts = nil
	f.size = 0
	return data
}

func (f *fragments) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.parts)
}
