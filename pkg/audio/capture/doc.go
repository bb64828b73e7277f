// ABOUTME: Microphone capture sessions producing encoded blobs
// ABOUTME: Provides Recorder interface with malgo and file implementations
// Package capture records audio into a Blob.
//
// While recording, a Recorder accumulates fragments as the device
// delivers them. Stop concatenates the fragments into one blob tagged with
// its format and resets the recorder for the next session.
//
// Example:
//
//	rec := capture.NewMalgo(capture.DefaultConfig())
//	if err := rec.Start(ctx); errors.Is(err, capture.ErrPermissionDenied) {
//	    ...
//	}
//	blob, err := rec.Stop()
package capture
