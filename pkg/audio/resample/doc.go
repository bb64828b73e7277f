// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts decoded buffers between sample rates and channel layouts
// Package resample provides sample rate and channel count conversion for
// decoded buffers.
//
// Uses linear interpolation for converting between sample rates.
// Handles both upsampling and downsampling.
//
// Example:
//
//	out := resample.Buffer(buf, 48000)
//	out = resample.Remix(out, 2)
package resample
