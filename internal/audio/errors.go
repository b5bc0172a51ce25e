// SPDX-License-Identifier: MIT
package audio

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned when a file is not recognised as any
// supported container.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// DecodeError reports a stream that was identified as a known format but
// could not be decoded (corrupt or truncated data, missing audio stream). It
// is kept distinct from I/O errors such as a missing input file.
type DecodeError struct {
	Codec Codec
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Codec, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeErr(codec Codec, err error) error {
	if err == nil {
		return nil
	}
	return &DecodeError{Codec: codec, Err: err}
}
