// ABOUTME: Decode error kinds
// ABOUTME: DecodeError marks failures of the decode step
package decode

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode matches every *DecodeError via errors.Is
	ErrDecode = errors.New("decode failed")
	// ErrUnsupportedFormat is returned for containers without a decoder
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrEmptyInput is returned for zero-length blobs
	ErrEmptyInput = errors.New("empty audio input")
)

// DecodeError reports a blob that could not be decoded
type DecodeError struct {
	Codec string
	Err   error
}

func (e *DecodeError) Error() string {
	codec := e.Codec
	if codec == "" {
		codec = "unknown"
	}
	return fmt.Sprintf("decode %s: %v", codec, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDecode) true for any DecodeError
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

func wrap(codec string, err error) error {
	var decErr *DecodeError
	if errors.As(err, &decErr) {
		return err
	}
	return &DecodeError{Codec: codec, Err: err}
}
