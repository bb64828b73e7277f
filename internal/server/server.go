// ABOUTME: Development voice backend
// ABOUTME: Accepts waveform uploads, validates them and replies with audio
package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quicksupport/quicksupport-go/internal/discovery"
	"github.com/quicksupport/quicksupport-go/internal/upload"
	"github.com/quicksupport/quicksupport-go/pkg/audio"
	"github.com/quicksupport/quicksupport-go/pkg/audio/decode"
	"github.com/quicksupport/quicksupport-go/pkg/audio/wav"
)

const maxUploadBytes = 32 << 20

// Config holds server configuration
type Config struct {
	Port       int
	Name       string
	Path       string
	EnableMDNS bool
	UseTUI     bool
	ReplyFile  string // Audio file sent as every reply. Empty = echo the upload
}

// Server is a development backend for the agent
type Server struct {
	config   Config
	serverID string

	httpServer *http.Server
	mux        *http.ServeMux
	listener   net.Listener

	reply            []byte
	replyContentType string

	// mDNS discovery
	mdnsManager *discovery.Manager

	// TUI
	tui *ServerTUI

	statsMu sync.Mutex
	stats   Stats

	// Control
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Stats counts handled uploads
type Stats struct {
	Requests     int
	Failures     int
	LastRequest  string
	LastDuration time.Duration
	LastError    string
}

// New creates a new server instance
func New(config Config) *Server {
	if config.Path == "" {
		config.Path = discovery.DefaultPath
	}

	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		mux:      http.NewServeMux(),
		stopChan: make(chan struct{}),
	}
	s.mux.HandleFunc(config.Path, s.handleAudio)
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.mux
}

// LoadReply reads the reply file and checks that it decodes
func (s *Server) LoadReply() error {
	if s.config.ReplyFile == "" {
		return nil
	}

	data, err := os.ReadFile(s.config.ReplyFile)
	if err != nil {
		return fmt.Errorf("failed to read reply file: %w", err)
	}
	buf, err := decode.Decode(audio.Blob{Data: data})
	if err != nil {
		return fmt.Errorf("reply file is not playable: %w", err)
	}

	s.reply = data
	s.replyContentType = contentTypeFor(decode.Sniff(data))
	log.Printf("Reply clip loaded: %s (%.2fs, %s)", s.config.ReplyFile, buf.Duration(), s.replyContentType)
	return nil
}

// Start serves until Stop is called or the TUI quits
func (s *Server) Start() error {
	if err := s.LoadReply(); err != nil {
		return err
	}

	// Start TUI if enabled
	if s.config.UseTUI {
		s.tui = NewServerTUI()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.tui.Start(s.status()); err != nil {
				log.Printf("TUI error: %v", err)
			}
		}()
	}

	log.Printf("Server starting: %s (ID: %s)", s.config.Name, s.serverID)

	addr := fmt.Sprintf(":%d", s.config.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = ln
	log.Printf("Accepting uploads on http://%s%s", ln.Addr(), s.config.Path)

	// Start mDNS advertisement if enabled
	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        s.config.Port,
			Path:        s.config.Path,
		})

		if err := s.mdnsManager.Advertise(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
		} else {
			log.Printf("mDNS advertisement started")
		}
	}

	s.httpServer = &http.Server{Handler: s.mux}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for stop signal, TUI quit, or server error
	var serverErr error
	var tuiQuitChan <-chan struct{}
	if s.tui != nil {
		tuiQuitChan = s.tui.QuitChan()
	}

	select {
	case <-s.stopChan:
		log.Printf("Server shutting down...")
	case <-tuiQuitChan:
		log.Printf("TUI quit requested, shutting down...")
	case err := <-errChan:
		log.Printf("HTTP server error: %v", err)
		serverErr = err
	}

	// Stop TUI first so it can display shutdown message
	if s.tui != nil {
		s.tui.Stop()
	}

	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	s.wg.Wait()
	log.Printf("Server stopped cleanly")

	if serverErr != nil {
		return fmt.Errorf("HTTP server failed: %w", serverErr)
	}
	return nil
}

// Stop stops the server
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// Stats returns a snapshot of the upload counters
func (s *Server) Stats() Stats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.stats
}

// handleAudio validates one upload and writes the reply
func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := r.Header.Get("X-Request-ID")
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile(upload.FieldName)
	if err != nil {
		s.reject(w, requestID, http.StatusBadRequest, fmt.Errorf("missing %s field: %w", upload.FieldName, err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.reject(w, requestID, http.StatusBadRequest, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	info, err := wav.Parse(data)
	if err != nil {
		s.reject(w, requestID, http.StatusUnsupportedMediaType, err)
		return
	}
	if info.AudioFormat != wav.FormatPCM || info.BitsPerSample != 16 {
		s.reject(w, requestID, http.StatusUnsupportedMediaType,
			fmt.Errorf("expected 16-bit PCM, got format %d at %d bits", info.AudioFormat, info.BitsPerSample))
		return
	}

	log.Printf("Upload %s: %s, %d bytes, %dHz %dch, %.2fs",
		requestID, header.Filename, len(data), info.SampleRate, info.NumChannels, info.Duration())

	s.record(requestID, time.Duration(info.Duration()*float64(time.Second)), nil)

	reply, contentType := data, wav.ContentType
	if s.reply != nil {
		reply, contentType = s.reply, s.replyContentType
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(reply); err != nil {
		log.Printf("Error writing reply for %s: %v", requestID, err)
	}
}

func (s *Server) reject(w http.ResponseWriter, requestID string, status int, err error) {
	log.Printf("Upload %s rejected: %v", requestID, err)
	s.record(requestID, 0, err)
	http.Error(w, err.Error(), status)
}

func (s *Server) record(requestID string, duration time.Duration, err error) {
	s.statsMu.Lock()
	s.stats.Requests++
	s.stats.LastRequest = requestID
	if err != nil {
		s.stats.Failures++
		s.stats.LastError = err.Error()
	} else {
		s.stats.LastDuration = duration
		s.stats.LastError = ""
	}
	s.statsMu.Unlock()

	if s.tui != nil {
		s.tui.Update(s.status())
	}
}

// status builds the TUI snapshot
func (s *Server) status() ServerStatus {
	stats := s.Stats()
	reply := "echo"
	if s.config.ReplyFile != "" {
		reply = s.config.ReplyFile
	}
	return ServerStatus{
		Name:  s.config.Name,
		Port:  s.config.Port,
		Path:  s.config.Path,
		Reply: reply,
		Stats: stats,
	}
}

func contentTypeFor(codec string) string {
	switch codec {
	case decode.CodecWAV:
		return wav.ContentType
	case decode.CodecMP3:
		return "audio/mpeg"
	case decode.CodecFLAC:
		return "audio/flac"
	case decode.CodecOpus:
		return "audio/ogg"
	default:
		return "application/octet-stream"
	}
}
