// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC streams frame by frame using mewkiz/flac
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/quicksupport/quicksupport-go/pkg/audio"
)

// FLACDecoder decodes FLAC audio
type FLACDecoder struct{}

// NewFLAC creates a new FLAC decoder
func NewFLAC(format audio.Format) (Decoder, error) {
	if format.Codec != CodecFLAC {
		return nil, fmt.Errorf("invalid codec for FLAC decoder: %s", format.Codec)
	}
	return &FLACDecoder{}, nil
}

// Decode converts FLAC bytes to a decoded buffer
func (d *FLACDecoder) Decode(data []byte) (*audio.DecodedBuffer, error) {
	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open flac stream: %w", err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	if channels == 0 {
		return nil, fmt.Errorf("flac stream has no channels")
	}
	scale := float32(int64(1) << (stream.Info.BitsPerSample - 1))

	planar := make([][]float32, channels)
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac frame decode failed: %w", err)
		}
		for ch := 0; ch < channels && ch < len(frame.Subframes); ch++ {
			for _, s := range frame.Subframes[ch].Samples {
				planar[ch] = append(planar[ch], float32(s)/scale)
			}
		}
	}

	return &audio.DecodedBuffer{
		SampleRate: int(stream.Info.SampleRate),
		Channels:   planar,
	}, nil
}

// Close releases decoder resources
func (d *FLACDecoder) Close() error {
	return nil
}
