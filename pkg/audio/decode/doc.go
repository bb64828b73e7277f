// ABOUTME: Audio decoder package for multiple codec support
// ABOUTME: Provides Decoder interface and implementations for PCM, WAV, MP3, FLAC, Opus
// Package decode turns encoded audio blobs into planar float buffers.
//
// Supports: raw PCM (16-bit and 24-bit), WAV (PCM and IEEE float),
// MP3, FLAC and Ogg Opus.
//
// Every failure is reported as a *DecodeError so callers can tell a bad
// recording apart from encoder or transport problems:
//
//	buf, err := decode.Decode(blob)
//	var decErr *decode.DecodeError
//	if errors.As(err, &decErr) {
//	    log.Printf("could not decode %s input: %v", decErr.Codec, decErr.Err)
//	}
//
// When a blob carries no codec, the container is sniffed from its
// leading bytes (see Sniff).
package decode
