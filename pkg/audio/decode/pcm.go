// ABOUTME: PCM audio decoder
// ABOUTME: Decodes raw interleaved 16-bit and 24-bit PCM to float buffers
package decode

import (
	"encoding/binary"
	"fmt"

	"github.com/quicksupport/quicksupport-go/pkg/audio"
)

// PCMDecoder decodes raw little-endian PCM
type PCMDecoder struct {
	sampleRate int
	channels   int
	bitDepth   int
}

// NewPCM creates a new PCM decoder. Raw PCM carries no header, so the
// format must describe the sample rate and channel count.
func NewPCM(format audio.Format) (Decoder, error) {
	if format.Codec != CodecPCM {
		return nil, fmt.Errorf("invalid codec for PCM decoder: %s", format.Codec)
	}
	if format.BitDepth != 16 && format.BitDepth != 24 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", format.BitDepth)
	}
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return nil, fmt.Errorf("invalid PCM shape: %dHz %dch", format.SampleRate, format.Channels)
	}

	return &PCMDecoder{
		sampleRate: format.SampleRate,
		channels:   format.Channels,
		bitDepth:   format.BitDepth,
	}, nil
}

// Decode converts PCM bytes to a decoded buffer
func (d *PCMDecoder) Decode(data []byte) (*audio.DecodedBuffer, error) {
	return decodeInteger(data, d.sampleRate, d.channels, d.bitDepth), nil
}

// Close releases resources
func (d *PCMDecoder) Close() error {
	return nil
}

// decodeInteger converts interleaved integer PCM. Partial trailing frames
// are dropped.
func decodeInteger(data []byte, sampleRate, channels, bitDepth int) *audio.DecodedBuffer {
	bytesPerSample := bitDepth / 8
	frames := len(data) / (bytesPerSample * channels)
	buf := audio.NewDecodedBuffer(sampleRate, channels, frames)

	pos := 0
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			if bitDepth == 24 {
				b := [3]byte{data[pos], data[pos+1], data[pos+2]}
				buf.Channels[ch][i] = audio.Float32From24Bit(audio.SampleFrom24Bit(b))
			} else {
				sample16 := int16(binary.LittleEndian.Uint16(data[pos:]))
				buf.Channels[ch][i] = audio.Float32FromInt16(sample16)
			}
			pos += bytesPerSample
		}
	}
	return buf
}
