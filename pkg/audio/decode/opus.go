// ABOUTME: Opus audio decoder
// ABOUTME: Decodes Ogg Opus files to float buffers using libopusfile
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/quicksupport/quicksupport-go/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

// libopusfile always decodes at 48kHz
const opusSampleRate = 48000

// Max frame size (120ms at 48kHz) per channel
const opusMaxFrame = 5760

// OpusDecoder decodes Ogg Opus audio
type OpusDecoder struct{}

// NewOpus creates a new Opus decoder
func NewOpus(format audio.Format) (Decoder, error) {
	if format.Codec != CodecOpus {
		return nil, fmt.Errorf("invalid codec for Opus decoder: %s", format.Codec)
	}
	return &OpusDecoder{}, nil
}

// Decode converts an Ogg Opus file to a decoded buffer
func (d *OpusDecoder) Decode(data []byte) (*audio.DecodedBuffer, error) {
	channels, err := opusChannels(data)
	if err != nil {
		return nil, err
	}

	stream, err := opus.NewStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open opus stream: %w", err)
	}
	defer stream.Close()

	pcm := make([]float32, opusMaxFrame*channels)
	var interleaved []float32
	for {
		n, err := stream.ReadFloat32(pcm)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("opus decode failed: %w", err)
		}
		// n is samples per channel
		interleaved = append(interleaved, pcm[:n*channels]...)
	}

	return audio.Deinterleave(interleaved, opusSampleRate, channels), nil
}

// Close releases decoder resources
func (d *OpusDecoder) Close() error {
	return nil
}

// opusChannels reads the output channel count from the OpusHead packet
func opusChannels(data []byte) (int, error) {
	off := opusHeadOffset(data)
	// "OpusHead", version, channel count
	if off < 0 || off+10 > len(data) {
		return 0, fmt.Errorf("missing OpusHead packet")
	}
	channels := int(data[off+9])
	if channels == 0 {
		return 0, fmt.Errorf("OpusHead declares zero channels")
	}
	return channels, nil
}
