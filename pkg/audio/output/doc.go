// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides Output interface with oto and malgo implementations
// Package output provides audio playback devices.
//
// Two backends are available: oto (default, 16-bit) and malgo
// (miniaudio, 16-bit or 24-bit). Samples are int32 in 24-bit range.
//
// Example:
//
//	out := output.NewOto()
//	err := out.Open(48000, 2)
//	err = out.Write(samples)
//	err = out.Flush()
package output
