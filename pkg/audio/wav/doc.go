// ABOUTME: Canonical WAV container encoder and header reader
// ABOUTME: Serializes decoded buffers into 16-bit PCM RIFF/WAVE bytes
// Package wav encodes decoded audio into the canonical uncompressed WAV
// container: a 44-byte RIFF/WAVE header followed by interleaved 16-bit
// signed little-endian samples.
//
// Encoding is a pure, total transformation. The output length is always
// 44 + frames*channels*2 bytes, and a zero-length buffer produces a
// header-only container.
//
// Samples are clamped to [-1, 1] and scaled asymmetrically (32768 for
// negative values, 32767 otherwise) so the full int16 range is used.
//
// Example:
//
//	data := wav.Encode(buf)
//	info, err := wav.Parse(data)
package wav
