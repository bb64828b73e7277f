// ABOUTME: Decoder interface definition and codec dispatch
// ABOUTME: Selects a decoder by format codec or sniffed container
package decode

import (
	"fmt"

	"github.com/quicksupport/quicksupport-go/pkg/audio"
)

// Codec names understood by New
const (
	CodecPCM  = "pcm"
	CodecWAV  = "wav"
	CodecMP3  = "mp3"
	CodecFLAC = "flac"
	CodecOpus = "opus"
)

// Decoder decodes a complete encoded blob to planar float PCM
type Decoder interface {
	// Decode converts encoded audio data to a decoded buffer
	Decode(data []byte) (*audio.DecodedBuffer, error)

	// Close releases decoder resources
	Close() error
}

// New creates a decoder for format.Codec
func New(format audio.Format) (Decoder, error) {
	switch format.Codec {
	case CodecPCM:
		return NewPCM(format)
	case CodecWAV:
		return NewWAV(format)
	case CodecMP3:
		return NewMP3(format)
	case CodecFLAC:
		return NewFLAC(format)
	case CodecOpus:
		return NewOpus(format)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format.Codec)
	}
}

// Decode decodes a whole blob. An empty codec is resolved with Sniff.
// All errors are *DecodeError.
func Decode(blob audio.Blob) (*audio.DecodedBuffer, error) {
	format := blob.Format
	if len(blob.Data) == 0 {
		return nil, &DecodeError{Codec: format.Codec, Err: ErrEmptyInput}
	}
	if format.Codec == "" {
		format.Codec = Sniff(blob.Data)
	}

	dec, err := New(format)
	if err != nil {
		return nil, wrap(format.Codec, err)
	}
	defer dec.Close()

	buf, err := dec.Decode(blob.Data)
	if err != nil {
		return nil, wrap(format.Codec, err)
	}
	if buf.NumberOfChannels() == 0 || buf.SampleRate <= 0 {
		return nil, &DecodeError{Codec: format.Codec, Err: fmt.Errorf("decoder produced invalid shape: %dHz %dch", buf.SampleRate, buf.NumberOfChannels())}
	}
	return buf, nil
}
