// ABOUTME: WAV audio decoder
// ABOUTME: Decodes RIFF/WAVE files with integer or float samples
package decode

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/quicksupport/quicksupport-go/pkg/audio"
	"github.com/quicksupport/quicksupport-go/pkg/audio/wav"
)

// WAVDecoder decodes WAV files
type WAVDecoder struct{}

// NewWAV creates a new WAV decoder
func NewWAV(format audio.Format) (Decoder, error) {
	if format.Codec != CodecWAV {
		return nil, fmt.Errorf("invalid codec for WAV decoder: %s", format.Codec)
	}
	return &WAVDecoder{}, nil
}

// Decode parses the header and converts the data chunk
func (d *WAVDecoder) Decode(data []byte) (*audio.DecodedBuffer, error) {
	info, err := wav.Parse(data)
	if err != nil {
		return nil, err
	}
	if info.NumChannels <= 0 || info.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid wav shape: %dHz %dch", info.SampleRate, info.NumChannels)
	}

	payload := data[info.DataOffset : info.DataOffset+info.DataSize]

	switch {
	case info.AudioFormat == wav.FormatPCM && (info.BitsPerSample == 16 || info.BitsPerSample == 24):
		return decodeInteger(payload, info.SampleRate, info.NumChannels, info.BitsPerSample), nil
	case info.AudioFormat == wav.FormatFloat && info.BitsPerSample == 32:
		return decodeFloat32(payload, info.SampleRate, info.NumChannels), nil
	default:
		return nil, fmt.Errorf("%w: wav format %d with %d-bit samples", ErrUnsupportedFormat, info.AudioFormat, info.BitsPerSample)
	}
}

// Close releases resources
func (d *WAVDecoder) Close() error {
	return nil
}

func decodeFloat32(data []byte, sampleRate, channels int) *audio.DecodedBuffer {
	frames := len(data) / (4 * channels)
	buf := audio.NewDecodedBuffer(sampleRate, channels, frames)

	pos := 0
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			buf.Channels[ch][i] = math.Float32frombits(binary.LittleEndian.Uint32(data[pos:]))
			pos += 4
		}
	}
	return buf
}
