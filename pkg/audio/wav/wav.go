// ABOUTME: WAV encoder for decoded PCM buffers
// ABOUTME: Writes the 44-byte header and interleaved 16-bit samples
package wav

import (
	"math"

	"github.com/quicksupport/quicksupport-go/pkg/audio"
)

// Chunk tags as little-endian uint32 constants
const (
	tagRIFF = 0x46464952 // "RIFF"
	tagWAVE = 0x45564157 // "WAVE"
	tagFmt  = 0x20746d66 // "fmt "
	tagData = 0x61746164 // "data"
)

const (
	// HeaderSize is the size of the canonical PCM header
	HeaderSize = 44

	// FormatPCM is the WAVE_FORMAT_PCM audio format code
	FormatPCM = 1
	// FormatFloat is the WAVE_FORMAT_IEEE_FLOAT audio format code
	FormatFloat = 3

	bitsPerSample  = 16
	bytesPerSample = bitsPerSample / 8
	fmtChunkSize   = 16
)

// ContentType is the MIME type of the encoded container
const ContentType = "audio/wav"

// Size returns the encoded container size for the given shape
func Size(frames, channels int) int {
	return HeaderSize + frames*channels*bytesPerSample
}

// Encode serializes buf into a canonical 16-bit PCM WAV container.
//
// Every channel slice must hold at least buf.Length() samples; shorter
// slices panic with an index out of range.
func Encode(buf *audio.DecodedBuffer) []byte {
	channels := buf.NumberOfChannels()
	frames := buf.Length()
	total := Size(frames, channels)
	dataSize := frames * channels * bytesPerSample

	w := newWriter(total)

	w.writeU32(tagRIFF)
	w.writeU32(uint32(total - 8))
	w.writeU32(tagWAVE)

	w.writeU32(tagFmt)
	w.writeU32(fmtChunkSize)
	w.writeU16(FormatPCM)
	w.writeU16(uint16(channels))
	w.writeU32(uint32(buf.SampleRate))
	w.writeU32(uint32(buf.SampleRate * channels * bytesPerSample))
	w.writeU16(uint16(channels * bytesPerSample))
	w.writeU16(bitsPerSample)

	w.writeU32(tagData)
	w.writeU32(uint32(dataSize))

	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			w.writeI16(Quantize(buf.Channels[ch][i]))
		}
	}

	return w.bytes()
}

// Quantize converts a float sample to int16. The sample is clamped to
// [-1, 1], then negative values scale by 32768 and the rest by 32767.
// NaN encodes as silence.
func Quantize(s float32) int16 {
	v := float64(s)
	if math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	if v < 0 {
		return int16(math.Round(v * 32768))
	}
	return int16(math.Round(v * 32767))
}
