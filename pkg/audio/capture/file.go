// ABOUTME: File-backed recorder
// ABOUTME: Replays a prerecorded clip as the captured blob
package capture

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/quicksupport/quicksupport-go/pkg/audio"
)

// File is a Recorder that returns the contents of a file on Stop.
// The container is left for the decoder to sniff.
type File struct {
	path string

	mu        sync.Mutex
	recording bool
}

// NewFile creates a recorder backed by path
func NewFile(path string) Recorder {
	return &File{path: path}
}

// Start checks that the file is readable
func (f *File) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.recording {
		return ErrAlreadyRecording
	}
	if _, err := os.Stat(f.path); err != nil {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	f.recording = true
	return nil
}

// Stop reads the file
func (f *File) Stop() (audio.Blob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.recording {
		return audio.Blob{}, ErrNotRecording
	}
	f.recording = false

	data, err := os.ReadFile(f.path)
	if err != nil {
		return audio.Blob{}, fmt.Errorf("failed to read recording %s: %w", f.path, err)
	}
	return audio.Blob{Data: data}, nil
}

// Recording reports whether a capture is active
func (f *File) Recording() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recording
}

// Close is a no-op
func (f *File) Close() error {
	return nil
}
