// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 files to float buffers using go-mp3
package decode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
	"github.com/quicksupport/quicksupport-go/pkg/audio"
)

// go-mp3 always produces 16-bit stereo
const mp3Channels = 2

// MP3Decoder decodes MP3 audio
type MP3Decoder struct{}

// NewMP3 creates a new MP3 decoder
func NewMP3(format audio.Format) (Decoder, error) {
	if format.Codec != CodecMP3 {
		return nil, fmt.Errorf("invalid codec for MP3 decoder: %s", format.Codec)
	}
	return &MP3Decoder{}, nil
}

// Decode converts MP3 bytes to a decoded buffer
func (d *MP3Decoder) Decode(data []byte) (*audio.DecodedBuffer, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode error: %w", err)
	}

	frames := len(pcm) / (2 * mp3Channels)
	buf := audio.NewDecodedBuffer(decoder.SampleRate(), mp3Channels, frames)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < mp3Channels; ch++ {
			sample16 := int16(binary.LittleEndian.Uint16(pcm[(i*mp3Channels+ch)*2:]))
			buf.Channels[ch][i] = audio.Float32FromInt16(sample16)
		}
	}
	return buf, nil
}

// Close releases decoder resources
func (d *MP3Decoder) Close() error {
	return nil
}
