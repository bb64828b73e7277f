// ABOUTME: Audio type definitions
// ABOUTME: Defines audio formats, captured blobs and decoded buffers
package audio

import "fmt"

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// Format describes an audio stream or blob format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// String returns a short human-readable description of the format
func (f Format) String() string {
	codec := f.Codec
	if codec == "" {
		codec = "auto"
	}
	return fmt.Sprintf("%s %dHz %dch %d-bit", codec, f.SampleRate, f.Channels, f.BitDepth)
}

// Blob is encoded audio as captured or loaded from a file.
// An empty Format.Codec means the container must be sniffed.
type Blob struct {
	Data   []byte
	Format Format
}

// DecodedBuffer is planar float32 PCM audio, one slice per channel.
// Samples are nominally in [-1, 1]; decode artifacts outside that
// range are tolerated.
type DecodedBuffer struct {
	SampleRate int
	Channels   [][]float32
}

// NewDecodedBuffer allocates a zeroed buffer with the given shape
func NewDecodedBuffer(sampleRate, channels, length int) *DecodedBuffer {
	b := &DecodedBuffer{
		SampleRate: sampleRate,
		Channels:   make([][]float32, channels),
	}
	for ch := range b.Channels {
		b.Channels[ch] = make([]float32, length)
	}
	return b
}

// NumberOfChannels returns the channel count
func (b *DecodedBuffer) NumberOfChannels() int {
	return len(b.Channels)
}

// Length returns the number of frames per channel
func (b *DecodedBuffer) Length() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the buffer length in seconds
func (b *DecodedBuffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Length()) / float64(b.SampleRate)
}

// Interleaved returns the samples frame by frame in the output device
// convention (int32 in 24-bit range)
func (b *DecodedBuffer) Interleaved() []int32 {
	channels := b.NumberOfChannels()
	length := b.Length()
	out := make([]int32, length*channels)
	for i := 0; i < length; i++ {
		for ch := 0; ch < channels; ch++ {
			out[i*channels+ch] = SampleFromFloat32(b.Channels[ch][i])
		}
	}
	return out
}

// Deinterleave splits interleaved float samples into a planar buffer.
// Trailing samples that do not fill a whole frame are dropped.
func Deinterleave(samples []float32, sampleRate, channels int) *DecodedBuffer {
	frames := len(samples) / channels
	b := NewDecodedBuffer(sampleRate, channels, frames)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			b.Channels[ch][i] = samples[i*channels+ch]
		}
	}
	return b
}

// Float32FromInt16 converts a 16-bit sample to float in [-1, 1)
func Float32FromInt16(sample int16) float32 {
	return float32(sample) / 32768.0
}

// Float32From24Bit converts a sign-extended 24-bit sample to float in [-1, 1)
func Float32From24Bit(sample int32) float32 {
	return float32(sample) / 8388608.0
}

// SampleFromFloat32 converts a float sample to int32 in 24-bit range,
// clamping out-of-range input
func SampleFromFloat32(sample float32) int32 {
	if sample >= 1 {
		return Max24Bit
	}
	if sample <= -1 {
		return Min24Bit
	}
	return int32(sample * 8388608.0)
}

// SampleToInt16 converts int32 sample to int16 (for 16-bit playback)
func SampleToInt16(sample int32) int16 {
	// Right-shift to convert 24-bit to 16-bit range
	return int16(sample >> 8)
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}
