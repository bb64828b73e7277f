// ABOUTME: Clip player driving an output device
// ABOUTME: Converts clips to the device format and streams them in small chunks
package playback

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/quicksupport/quicksupport-go/pkg/audio/output"
	"github.com/quicksupport/quicksupport-go/pkg/audio/resample"
)

// ErrPlaying is returned by Play while another clip is playing
var ErrPlaying = errors.New("player busy")

// Config holds the output device format
type Config struct {
	SampleRate int
	Channels   int
	ChunkMs    int
}

// DefaultConfig returns 48kHz stereo with 20ms writes
func DefaultConfig() Config {
	return Config{
		SampleRate: 48000,
		Channels:   2,
		ChunkMs:    20,
	}
}

// Player plays one clip at a time
type Player struct {
	out    output.Output
	config Config

	mu      sync.Mutex
	opened  bool
	playing bool
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
}

// NewPlayer creates a player on the given output
func NewPlayer(out output.Output, config Config) *Player {
	if config.ChunkMs <= 0 {
		config.ChunkMs = DefaultConfig().ChunkMs
	}
	done := make(chan struct{})
	close(done)

	return &Player{
		out:    out,
		config: config,
		done:   done,
	}
}

// Play starts playing clip and returns once playback is under way.
// Done is closed when the clip finishes or Stop is called.
func (p *Player) Play(ctx context.Context, clip *Clip) error {
	buf, err := clip.Buffer()
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.playing {
		return ErrPlaying
	}

	if !p.opened {
		if err := p.out.Open(p.config.SampleRate, p.config.Channels); err != nil {
			return fmt.Errorf("failed to open output: %w", err)
		}
		p.opened = true
	}

	converted := resample.Remix(resample.Buffer(buf, p.config.SampleRate), p.config.Channels)
	samples := converted.Interleaved()

	playCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.playing = true
	p.err = nil

	go p.run(playCtx, clip.URL(), samples, p.done)
	return nil
}

func (p *Player) run(ctx context.Context, url string, samples []int32, done chan struct{}) {
	chunk := p.config.SampleRate * p.config.Channels * p.config.ChunkMs / 1000
	if chunk <= 0 {
		chunk = len(samples)
	}

	var err error
	stopped := false
	for start := 0; start < len(samples); start += chunk {
		if ctx.Err() != nil {
			stopped = true
			break
		}
		end := start + chunk
		if end > len(samples) {
			end = len(samples)
		}
		if err = p.out.Write(samples[start:end]); err != nil {
			break
		}
	}
	if err == nil && !stopped {
		err = p.out.Flush()
	}

	if err != nil {
		log.Printf("Playback of %s failed: %v", url, err)
	} else if stopped {
		log.Printf("Playback of %s stopped", url)
	} else {
		log.Printf("Playback of %s finished", url)
	}

	p.mu.Lock()
	p.playing = false
	p.err = err
	p.cancel()
	p.mu.Unlock()
	close(done)
}

// Stop interrupts the current clip. It does not wait for Done.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
}

// Done returns a channel closed when the current playback ends
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Playing reports whether a clip is playing
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Err returns the error that ended the last playback, if any
func (p *Player) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// SetVolume forwards to the output device
func (p *Player) SetVolume(volume int) {
	p.out.SetVolume(volume)
}

// SetMuted forwards to the output device
func (p *Player) SetMuted(muted bool) {
	p.out.SetMuted(muted)
}

// Close stops playback and releases the output device
func (p *Player) Close() error {
	p.Stop()
	<-p.Done()
	return p.out.Close()
}
