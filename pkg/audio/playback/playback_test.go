// ABOUTME: Tests for clip lifecycle and the clip player
// ABOUTME: Uses a fake output device to observe writes, stop and completion
package playback

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/quicksupport/quicksupport-go/pkg/audio"
	"github.com/quicksupport/quicksupport-go/pkg/audio/decode"
	"github.com/quicksupport/quicksupport-go/pkg/audio/wav"
)

// fakeOutput records writes; when gate is set each write waits on it
type fakeOutput struct {
	mu         sync.Mutex
	sampleRate int
	channels   int
	opens      int
	samples    []int32
	flushed    int
	closed     bool
	volume     int
	gate       chan struct{}
}

func (f *fakeOutput) Open(sampleRate, channels int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens++
	f.sampleRate = sampleRate
	f.channels = channels
	return nil
}

func (f *fakeOutput) Write(samples []int32) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.samples = append(f.samples, samples...)
	return nil
}

func (f *fakeOutput) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushed++
	return nil
}

func (f *fakeOutput) SetVolume(volume int) { f.volume = volume }
func (f *fakeOutput) SetMuted(muted bool)  {}

func (f *fakeOutput) Close() error {
	f.closed = true
	return nil
}

func (f *fakeOutput) written() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.samples)
}

func replyBytes(rate, channels, frames int) []byte {
	return wav.Encode(audio.NewDecodedBuffer(rate, channels, frames))
}

func waitDone(t *testing.T, p *Player) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for playback to finish")
	}
}

func TestLibraryCreateReleasesPrevious(t *testing.T) {
	lib := NewLibrary()

	first, err := lib.Create(replyBytes(16000, 1, 160))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if !strings.HasPrefix(first.URL(), "clip:") {
		t.Errorf("unexpected clip URL %q", first.URL())
	}

	second, err := lib.Create(replyBytes(16000, 1, 160))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if !first.Released() {
		t.Error("expected previous clip to be released")
	}
	if second.Released() {
		t.Error("new clip should be live")
	}
	if first.URL() == second.URL() {
		t.Error("expected distinct clip URLs")
	}
	if lib.Current() != second {
		t.Error("expected Current() to return the newest clip")
	}

	lib.Release()
	if !second.Released() || lib.Current() != nil {
		t.Error("expected Release() to free the live clip")
	}
}

func TestLibraryCreateDecodeError(t *testing.T) {
	lib := NewLibrary()
	first, _ := lib.Create(replyBytes(16000, 1, 10))

	_, err := lib.Create([]byte("garbage"))
	if !errors.Is(err, decode.ErrDecode) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if !first.Released() {
		t.Error("expected previous clip to be released even when decode fails")
	}
}

func TestClipRelease(t *testing.T) {
	lib := NewLibrary()
	clip, _ := lib.Create(replyBytes(8000, 1, 8))

	if clip.Size() != 44+16 {
		t.Errorf("expected size 60, got %d", clip.Size())
	}

	clip.Release()
	clip.Release()

	if _, err := clip.Buffer(); !errors.Is(err, ErrReleased) {
		t.Errorf("expected ErrReleased, got %v", err)
	}
}

func TestPlayerPlaysWholeClip(t *testing.T) {
	out := &fakeOutput{}
	p := NewPlayer(out, Config{SampleRate: 16000, Channels: 2, ChunkMs: 10})

	clip, _ := NewLibrary().Create(replyBytes(16000, 1, 1000))

	if err := p.Play(context.Background(), clip); err != nil {
		t.Fatalf("Play() failed: %v", err)
	}
	waitDone(t, p)

	if out.sampleRate != 16000 || out.channels != 2 {
		t.Errorf("device opened at %dHz %dch", out.sampleRate, out.channels)
	}
	// Mono upmixed to stereo
	if out.written() != 2000 {
		t.Errorf("expected 2000 samples written, got %d", out.written())
	}
	if out.flushed != 1 {
		t.Errorf("expected 1 flush, got %d", out.flushed)
	}
	if p.Playing() || p.Err() != nil {
		t.Errorf("unexpected state after playback: playing=%v err=%v", p.Playing(), p.Err())
	}
}

func TestPlayerResamplesToDeviceRate(t *testing.T) {
	out := &fakeOutput{}
	p := NewPlayer(out, Config{SampleRate: 48000, Channels: 1})

	clip, _ := NewLibrary().Create(replyBytes(16000, 1, 160))
	if err := p.Play(context.Background(), clip); err != nil {
		t.Fatalf("Play() failed: %v", err)
	}
	waitDone(t, p)

	if out.written() != 480 {
		t.Errorf("expected 480 samples at 48kHz, got %d", out.written())
	}
}

func TestPlayerOpensOutputOnce(t *testing.T) {
	out := &fakeOutput{}
	p := NewPlayer(out, DefaultConfig())
	lib := NewLibrary()

	for i := 0; i < 3; i++ {
		clip, _ := lib.Create(replyBytes(48000, 2, 48))
		if err := p.Play(context.Background(), clip); err != nil {
			t.Fatalf("Play() #%d failed: %v", i, err)
		}
		waitDone(t, p)
	}

	if out.opens != 1 {
		t.Errorf("expected output opened once, got %d", out.opens)
	}
}

func TestPlayerStop(t *testing.T) {
	out := &fakeOutput{gate: make(chan struct{})}
	p := NewPlayer(out, Config{SampleRate: 8000, Channels: 1, ChunkMs: 10})

	clip, _ := NewLibrary().Create(replyBytes(8000, 1, 8000))
	if err := p.Play(context.Background(), clip); err != nil {
		t.Fatalf("Play() failed: %v", err)
	}

	if err := p.Play(context.Background(), clip); !errors.Is(err, ErrPlaying) {
		t.Errorf("expected ErrPlaying for concurrent Play, got %v", err)
	}

	p.Stop()
	// Let the blocked write finish
	close(out.gate)
	waitDone(t, p)

	if out.written() >= 8000 {
		t.Error("expected playback to stop before the end of the clip")
	}
	if out.flushed != 0 {
		t.Error("stopped playback should not flush")
	}
}

func TestPlayerRejectsReleasedClip(t *testing.T) {
	p := NewPlayer(&fakeOutput{}, DefaultConfig())
	clip, _ := NewLibrary().Create(replyBytes(48000, 2, 10))
	clip.Release()

	if err := p.Play(context.Background(), clip); !errors.Is(err, ErrReleased) {
		t.Errorf("expected ErrReleased, got %v", err)
	}
}

func TestPlayerDoneBeforePlay(t *testing.T) {
	p := NewPlayer(&fakeOutput{}, DefaultConfig())
	select {
	case <-p.Done():
	default:
		t.Error("expected Done to be closed before any playback")
	}
}

func TestPlayerClose(t *testing.T) {
	out := &fakeOutput{}
	p := NewPlayer(out, DefaultConfig())
	p.SetVolume(40)

	if err := p.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if !out.closed {
		t.Error("expected output to be closed")
	}
	if out.volume != 40 {
		t.Errorf("expected volume forwarded, got %d", out.volume)
	}
}
