// ABOUTME: Container detection from leading bytes
// ABOUTME: Maps magic numbers to decoder codec names
package decode

import (
	"bytes"

	"github.com/quicksupport/quicksupport-go/pkg/audio/wav"
)

// Container names that Sniff can report but no decoder handles
const (
	ContainerWebM = "webm"
	ContainerOgg  = "ogg"
	ContainerMP4  = "mp4"
)

// Sniff returns the codec name for the container in data, or "" when the
// bytes are not recognised
func Sniff(data []byte) string {
	switch {
	case wav.IsWAV(data):
		return CodecWAV
	case bytes.HasPrefix(data, []byte("fLaC")):
		return CodecFLAC
	case bytes.HasPrefix(data, []byte("OggS")):
		if opusHeadOffset(data) >= 0 {
			return CodecOpus
		}
		return ContainerOgg
	case bytes.HasPrefix(data, []byte{0x1A, 0x45, 0xDF, 0xA3}):
		return ContainerWebM
	case len(data) >= 8 && bytes.Equal(data[4:8], []byte("ftyp")):
		return ContainerMP4
	case bytes.HasPrefix(data, []byte("ID3")):
		return CodecMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		// MPEG audio frame sync
		return CodecMP3
	}
	return ""
}

// opusHeadOffset finds the OpusHead packet in the first Ogg page
func opusHeadOffset(data []byte) int {
	const firstPage = 512
	window := data
	if len(window) > firstPage {
		window = window[:firstPage]
	}
	return bytes.Index(window, []byte("OpusHead"))
}
