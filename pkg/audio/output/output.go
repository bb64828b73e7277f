// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for audio playback backends
package output

import (
	"fmt"

	"github.com/quicksupport/quicksupport-go/pkg/audio"
)

// Output represents an audio output device
type Output interface {
	// Open initializes the output device
	Open(sampleRate, channels int) error

	// Write queues audio samples (blocks until queued)
	Write(samples []int32) error

	// Flush blocks until queued samples have been played
	Flush() error

	// SetVolume sets the volume (0-100)
	SetVolume(volume int)

	// SetMuted sets mute state
	SetMuted(muted bool)

	// Close releases output resources
	Close() error
}

// Backend names accepted by New
const (
	BackendOto   = "oto"
	BackendMalgo = "malgo"
)

// New creates an output for the named backend
func New(backend string) (Output, error) {
	switch backend {
	case BackendOto, "":
		return NewOto(), nil
	case BackendMalgo:
		return NewMalgo(), nil
	default:
		return nil, fmt.Errorf("unknown output backend: %s", backend)
	}
}

// applyVolume applies volume and mute to samples with clipping protection
func applyVolume(samples []int32, volume int, muted bool) []int32 {
	multiplier := getVolumeMultiplier(volume, muted)
	result := make([]int32, len(samples))

	for i, sample := range samples {
		scaled := int64(float64(sample) * multiplier)

		// Clamp to 24-bit range to prevent overflow
		if scaled > audio.Max24Bit {
			scaled = audio.Max24Bit
		} else if scaled < audio.Min24Bit {
			scaled = audio.Min24Bit
		}

		result[i] = int32(scaled)
	}

	return result
}

// getVolumeMultiplier calculates volume multiplier
func getVolumeMultiplier(volume int, muted bool) float64 {
	if muted {
		return 0.0
	}
	return float64(volume) / 100.0
}

func clampVolume(volume int) int {
	if volume < 0 {
		return 0
	}
	if volume > 100 {
		return 100
	}
	return volume
}
