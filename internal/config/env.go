// ABOUTME: Environment-backed defaults for command-line flags
// ABOUTME: Loads .env files with godotenv and parses typed values
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names
const (
	EnvEndpoint   = "QUICKSUPPORT_ENDPOINT"
	EnvTimeout    = "QUICKSUPPORT_TIMEOUT"
	EnvSampleRate = "QUICKSUPPORT_SAMPLE_RATE"
	EnvChannels   = "QUICKSUPPORT_CHANNELS"
	EnvInput      = "QUICKSUPPORT_INPUT"
	EnvOutput     = "QUICKSUPPORT_OUTPUT"
	EnvDiscover   = "QUICKSUPPORT_DISCOVER"
	EnvStatusAddr = "QUICKSUPPORT_STATUS_ADDR"
	EnvLogFile    = "QUICKSUPPORT_LOG_FILE"
)

// Load reads .env files into the environment without overriding
// variables that are already set. A missing file is not an error.
func Load(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: failed to load env file: %v", err)
		}
	}
}

// String returns the variable or def when unset
func String(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// Int returns the variable as an int, or def when unset or invalid
func Int(key string, def int) int {
	v := String(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: ignoring invalid %s=%q: %v", key, v, err)
		return def
	}
	return n
}

// Bool returns the variable as a bool, or def when unset or invalid
func Bool(key string, def bool) bool {
	v := String(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		log.Printf("Warning: ignoring invalid %s=%q: %v", key, v, err)
		return def
	}
	return b
}

// Duration returns the variable as a duration, or def when unset or
// invalid. Bare numbers are seconds.
func Duration(key string, def time.Duration) time.Duration {
	v := String(key, "")
	if v == "" {
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: ignoring invalid %s=%q: %v", key, v, err)
		return def
	}
	return d
}
