// ABOUTME: Entry point for the development voice backend
// ABOUTME: Parses CLI flags and serves the upload endpoint
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/quicksupport/quicksupport-go/internal/config"
	"github.com/quicksupport/quicksupport-go/internal/server"
)

func main() {
	config.Load()

	var (
		port    = flag.Int("port", config.Int("QUICKSUPPORT_BACKEND_PORT", 8000), "HTTP port")
		name    = flag.String("name", "", "Backend friendly name (default: hostname-quicksupport-backend)")
		path    = flag.String("path", "/audio", "Upload path")
		reply   = flag.String("reply", "", "Audio file to send as every reply (WAV, MP3, FLAC, Opus). Empty = echo the upload")
		logFile = flag.String("log-file", "quicksupport-backend.log", "Log file path")
		noMDNS  = flag.Bool("no-mdns", false, "Disable mDNS advertisement")
		noTUI   = flag.Bool("no-tui", false, "Disable TUI, stream logs instead")
	)
	flag.Parse()

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	if *noTUI {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	} else {
		log.SetOutput(f)
	}

	serverName := *name
	if serverName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		serverName = fmt.Sprintf("%s-quicksupport-backend", hostname)
	}

	log.Printf("Starting QuickSupport backend: %s on port %d", serverName, *port)
	log.Printf("Logging to: %s", *logFile)

	srv := server.New(server.Config{
		Port:       *port,
		Name:       serverName,
		Path:       *path,
		EnableMDNS: !*noMDNS,
		UseTUI:     !*noTUI,
		ReplyFile:  *reply,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received %v signal, shutting down gracefully...", sig)
		srv.Stop()
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Printf("Server stopped")
}
