package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedTranscript marks structural defects in a transcript file.
// Match with errors.Is; the concrete error carries the offending detail.
var ErrMalformedTranscript = errors.New("malformed transcript")

// MissingKeysError reports required top-level keys absent from a
// transcript document.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return fmt.Sprintf("transcript is missing required keys: [%s]", strings.Join(e.Keys, " "))
}

func (e *MissingKeysError) Unwrap() error { return ErrMalformedTranscript }

// WrongTypeError reports a transcript field holding the wrong JSON type.
type WrongTypeError struct {
	Key  string
	Want string
	Got  string
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("transcript field %q must be %s, got %s", e.Key, e.Want, e.Got)
}

func (e *WrongTypeError) Unwrap() error { return ErrMalformedTranscript }
