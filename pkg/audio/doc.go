// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Blob, DecodedBuffer and sample conversion functions
// Package audio provides the fundamental audio types shared by the capture,
// decode, WAV and playback packages.
//
// This package defines:
//   - Format: Describes a stream or blob format (codec, sample rate, channels, bit depth)
//   - Blob: Encoded audio bytes as produced by a capture session or read from disk
//   - DecodedBuffer: Planar float32 PCM, one slice per channel
//
// It also provides utilities for converting between sample representations:
//   - int16 / 24-bit packed ↔ float32
//   - float32 ↔ int32 in 24-bit range (the output device convention)
//
// Example:
//
//	buf := audio.NewDecodedBuffer(16000, 1, 2)
//	buf.Channels[0][1] = -1.0
//	wavBytes := wav.Encode(buf)
package audio
