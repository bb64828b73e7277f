// ABOUTME: RIFF/WAVE header reader
// ABOUTME: Walks the chunk list to locate the fmt and data chunks
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrShortHeader is returned when data is too small to hold a RIFF header
	ErrShortHeader = errors.New("wav: data too short for header")
	// ErrNotWAV is returned when the RIFF/WAVE tags are missing
	ErrNotWAV = errors.New("wav: missing RIFF/WAVE tags")
	// ErrMissingChunk is returned when the fmt or data chunk cannot be found
	ErrMissingChunk = errors.New("wav: missing chunk")
)

// Info describes a parsed WAV container
type Info struct {
	AudioFormat   int
	NumChannels   int
	SampleRate    int
	ByteRate      int
	BlockAlign    int
	BitsPerSample int
	DataOffset    int
	DataSize      int
}

// Frames returns the number of sample frames in the data chunk
func (i *Info) Frames() int {
	if i.BlockAlign == 0 {
		return 0
	}
	return i.DataSize / i.BlockAlign
}

// Duration returns the audio length in seconds
func (i *Info) Duration() float64 {
	if i.SampleRate == 0 {
		return 0
	}
	return float64(i.Frames()) / float64(i.SampleRate)
}

// IsWAV reports whether data starts with RIFF/WAVE tags
func IsWAV(data []byte) bool {
	return len(data) >= 12 &&
		binary.LittleEndian.Uint32(data[0:]) == tagRIFF &&
		binary.LittleEndian.Uint32(data[8:]) == tagWAVE
}

// Parse reads the header of a WAV container. Chunks other than fmt and
// data are skipped. A data chunk size running past the end of the buffer
// is truncated to the bytes actually present.
func Parse(data []byte) (*Info, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrShortHeader, len(data))
	}
	if !IsWAV(data) {
		return nil, ErrNotWAV
	}

	info := &Info{}
	haveFmt := false
	pos := 12

	for pos+8 <= len(data) {
		id := binary.LittleEndian.Uint32(data[pos:])
		size := int(binary.LittleEndian.Uint32(data[pos+4:]))
		body := pos + 8

		switch id {
		case tagFmt:
			if size < fmtChunkSize || body+fmtChunkSize > len(data) {
				return nil, fmt.Errorf("%w: fmt chunk truncated", ErrShortHeader)
			}
			info.AudioFormat = int(binary.LittleEndian.Uint16(data[body:]))
			info.NumChannels = int(binary.LittleEndian.Uint16(data[body+2:]))
			info.SampleRate = int(binary.LittleEndian.Uint32(data[body+4:]))
			info.ByteRate = int(binary.LittleEndian.Uint32(data[body+8:]))
			info.BlockAlign = int(binary.LittleEndian.Uint16(data[body+12:]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(data[body+14:]))
			// WAVE_FORMAT_EXTENSIBLE carries the real format in the sub-format GUID
			if info.AudioFormat == 0xFFFE && size >= 26 && body+26 <= len(data) {
				info.AudioFormat = int(binary.LittleEndian.Uint16(data[body+24:]))
			}
			haveFmt = true

		case tagData:
			if !haveFmt {
				return nil, fmt.Errorf("%w: data before fmt", ErrMissingChunk)
			}
			if body+size > len(data) || size < 0 {
				size = len(data) - body
			}
			info.DataOffset = body
			info.DataSize = size
			return info, nil
		}

		// Chunks are word aligned
		pos = body + size + size%2
	}

	if !haveFmt {
		return nil, fmt.Errorf("%w: fmt", ErrMissingChunk)
	}
	return nil, fmt.Errorf("%w: data", ErrMissingChunk)
}
