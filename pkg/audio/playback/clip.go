// ABOUTME: Revocable handles for decoded reply audio
// ABOUTME: Library issues clips and releases the previous one on each create
package playback

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/quicksupport/quicksupport-go/pkg/audio"
	"github.com/quicksupport/quicksupport-go/pkg/audio/decode"
)

// ErrReleased is returned when using a clip after Release
var ErrReleased = errors.New("clip released")

// Clip is a playable handle over decoded audio
type Clip struct {
	url  string
	size int

	mu       sync.Mutex
	buf      *audio.DecodedBuffer
	released bool
}

// URL returns the handle identifier, e.g. "clip:2f1c..."
func (c *Clip) URL() string {
	return c.url
}

// Size returns the size of the encoded bytes the clip was created from
func (c *Clip) Size() int {
	return c.size
}

// Buffer returns the decoded audio, or ErrReleased
func (c *Clip) Buffer() (*audio.DecodedBuffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil, fmt.Errorf("%s: %w", c.url, ErrReleased)
	}
	return c.buf, nil
}

// Release frees the decoded audio. Releasing twice is a no-op.
func (c *Clip) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return
	}
	c.released = true
	c.buf = nil
}

// Released reports whether Release has been called
func (c *Clip) Released() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}

// Library issues clips, keeping at most one alive
type Library struct {
	mu      sync.Mutex
	current *Clip
}

// NewLibrary creates an empty clip library
func NewLibrary() *Library {
	return &Library{}
}

// Create decodes data into a new clip and releases the previous one.
// Decode failures are returned as *decode.DecodeError and leave the
// previous clip released as well.
func (l *Library) Create(data []byte) (*Clip, error) {
	l.Release()

	buf, err := decode.Decode(audio.Blob{Data: data})
	if err != nil {
		return nil, err
	}

	clip := &Clip{
		url:  "clip:" + uuid.NewString(),
		size: len(data),
		buf:  buf,
	}

	l.mu.Lock()
	l.current = clip
	l.mu.Unlock()

	log.Printf("Created %s (%d bytes, %.2fs, %dHz %dch)",
		clip.url, clip.size, buf.Duration(), buf.SampleRate, buf.NumberOfChannels())
	return clip, nil
}

// Current returns the live clip, or nil
func (l *Library) Current() *Clip {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Release frees the live clip, if any
func (l *Library) Release() {
	l.mu.Lock()
	clip := l.current
	l.current = nil
	l.mu.Unlock()

	if clip != nil {
		clip.Release()
		log.Printf("Released %s", clip.url)
	}
}
