// ABOUTME: User-facing error descriptions
// ABOUTME: Maps capture, decode and upload failures to short messages
package app

import (
	"errors"

	"github.com/quicksupport/quicksupport-go/internal/upload"
	"github.com/quicksupport/quicksupport-go/pkg/audio/capture"
	"github.com/quicksupport/quicksupport-go/pkg/audio/decode"
)

// describe returns the message shown to the user for err
func describe(err error) string {
	var uploadErr *upload.UploadError
	var decodeErr *decode.DecodeError

	switch {
	case errors.Is(err, capture.ErrPermissionDenied):
		return "Microphone unavailable: " + err.Error()
	case errors.As(err, &uploadErr):
		return "Could not reach the agent: " + uploadErr.Error()
	case errors.As(err, &decodeErr):
		return "Could not read audio: " + decodeErr.Error()
	default:
		return err.Error()
	}
}
