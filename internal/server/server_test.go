// ABOUTME: Tests for the development backend
// ABOUTME: Tests upload validation, echo replies and configured reply clips
package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/quicksupport/quicksupport-go/internal/upload"
	"github.com/quicksupport/quicksupport-go/pkg/audio"
	"github.com/quicksupport/quicksupport-go/pkg/audio/wav"
)

func sampleWAV(rate, frames int) []byte {
	buf := audio.NewDecodedBuffer(rate, 1, frames)
	for i := range buf.Channels[0] {
		buf.Channels[0][i] = 0.5
	}
	return wav.Encode(buf)
}

func TestUploadEchoesWaveform(t *testing.T) {
	srv := New(Config{Name: "test"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	data := sampleWAV(16000, 1600)
	client := upload.NewClient(upload.Config{Endpoint: ts.URL + "/audio", Timeout: 5 * time.Second})

	reply, err := client.Upload(context.Background(), data)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !bytes.Equal(reply, data) {
		t.Error("expected echoed waveform")
	}

	stats := srv.Stats()
	if stats.Requests != 1 || stats.Failures != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.LastDuration != 100*time.Millisecond {
		t.Errorf("expected 100ms clip, got %v", stats.LastDuration)
	}
	if stats.LastRequest == "" {
		t.Error("expected request id recorded")
	}
}

func TestUploadRejectsNonWAV(t *testing.T) {
	srv := New(Config{Name: "test"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := upload.NewClient(upload.Config{Endpoint: ts.URL + "/audio"})
	_, err := client.Upload(context.Background(), []byte("definitely not a wav file"))

	var uploadErr *upload.UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatalf("expected UploadError, got %v", err)
	}
	if uploadErr.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415, got %d", uploadErr.StatusCode)
	}
	if srv.Stats().Failures != 1 {
		t.Errorf("expected one failure, got %+v", srv.Stats())
	}
}

func TestUploadMissingField(t *testing.T) {
	srv := New(Config{Name: "test"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/audio", "text/plain", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := New(Config{Name: "test"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/audio")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}

func TestReplyFile(t *testing.T) {
	replyData := sampleWAV(24000, 480)
	path := filepath.Join(t.TempDir(), "reply.wav")
	if err := os.WriteFile(path, replyData, 0644); err != nil {
		t.Fatalf("failed to write reply: %v", err)
	}

	srv := New(Config{Name: "test", Path: "/v1/audio", ReplyFile: path})
	if err := srv.LoadReply(); err != nil {
		t.Fatalf("load reply failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := upload.NewClient(upload.Config{Endpoint: ts.URL + "/v1/audio"})
	reply, err := client.Upload(context.Background(), sampleWAV(16000, 160))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !bytes.Equal(reply, replyData) {
		t.Error("expected configured reply clip")
	}
}

func TestLoadReplyRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reply.bin")
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatalf("failed to write reply: %v", err)
	}

	srv := New(Config{ReplyFile: path})
	if err := srv.LoadReply(); err == nil {
		t.Error("expected error for undecodable reply")
	}
}

func TestContentTypeFor(t *testing.T) {
	tests := map[string]string{
		"wav":  "audio/wav",
		"mp3":  "audio/mpeg",
		"flac": "audio/flac",
		"opus": "audio/ogg",
		"":     "application/octet-stream",
	}
	for codec, want := range tests {
		if got := contentTypeFor(codec); got != want {
			t.Errorf("contentTypeFor(%q) = %q, want %q", codec, got, want)
		}
	}
}

func TestTUIModelView(t *testing.T) {
	m := tuiModel{
		status: ServerStatus{
			Name:  "dev",
			Port:  8000,
			Path:  "/audio",
			Reply: "echo",
			Stats: Stats{Requests: 3, Failures: 1, LastError: "bad upload"},
		},
		startTime: time.Now(),
		quitChan:  make(chan struct{}, 1),
	}

	view := m.View()
	for _, want := range []string{"QuickSupport Backend", ":8000/audio", "3 (1 rejected)", "bad upload"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view:\n%s", want, view)
		}
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("expected quit command")
	}
	if !updated.(tuiModel).quitting {
		t.Error("expected quitting")
	}
	select {
	case <-m.quitChan:
	default:
		t.Error("expected quit signal")
	}
}

func TestServerTUIUpdateAfterStop(t *testing.T) {
	tui := NewServerTUI()
	tui.Stop()
	tui.Update(ServerStatus{Name: "late"})
	tui.Stop()
}
