// ABOUTME: Entry point for the QuickSupport voice agent
// ABOUTME: Parses CLI flags and starts the agent application
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quicksupport/quicksupport-go/internal/app"
	"github.com/quicksupport/quicksupport-go/internal/config"
	"github.com/quicksupport/quicksupport-go/internal/upload"
	"github.com/quicksupport/quicksupport-go/internal/version"
	"github.com/quicksupport/quicksupport-go/pkg/audio/output"
)

func main() {
	config.Load()

	var (
		endpoint   = flag.String("endpoint", config.String(config.EnvEndpoint, ""), "Upload endpoint URL (default: discovered or "+upload.DefaultEndpoint+")")
		timeout    = flag.Duration("timeout", config.Duration(config.EnvTimeout, upload.DefaultTimeout), "Upload timeout (0 disables)")
		sampleRate = flag.Int("sample-rate", config.Int(config.EnvSampleRate, 48000), "Capture sample rate in Hz")
		channels   = flag.Int("channels", config.Int(config.EnvChannels, 1), "Capture channel count")
		input      = flag.String("input", config.String(config.EnvInput, ""), "Use a recorded audio file instead of the microphone")
		outBackend = flag.String("output", config.String(config.EnvOutput, output.BackendOto), "Audio output backend (oto, malgo)")
		discover   = flag.Bool("discover", config.Bool(config.EnvDiscover, false), "Find the endpoint via mDNS when -endpoint is empty")
		statusAddr = flag.String("status-addr", config.String(config.EnvStatusAddr, ""), "Serve the WebSocket status feed on this address")
		logFile    = flag.String("log-file", config.String(config.EnvLogFile, "quicksupport.log"), "Log file path")
		noTUI      = flag.Bool("no-tui", false, "Disable TUI, toggle with Enter and stream logs")
	)
	flag.Parse()

	useTUI := !*noTUI

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("Starting %s %s", version.Product, version.Version)
	if !useTUI {
		log.Printf("TUI disabled - logging to %s", *logFile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := app.Config{
		Endpoint:        *endpoint,
		Timeout:         *timeout,
		SampleRate:      *sampleRate,
		Channels:        *channels,
		Input:           *input,
		OutputBackend:   *outBackend,
		Discover:        *discover,
		DiscoverTimeout: 5 * time.Second,
		StatusAddr:      *statusAddr,
		UseTUI:          useTUI,
	}
	if !useTUI {
		cfg.Stdin = os.Stdin
	}

	if err := app.New(cfg).Run(ctx); err != nil {
		log.Fatalf("Agent failed: %v", err)
	}
}
