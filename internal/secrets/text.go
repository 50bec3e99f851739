package secrets

import (
	"unicode/utf8"

	lerrors "github.com/PolarWolf314/lockd/internal/errors"
)

// TextMode controls how decrypted note bytes that are not valid UTF-8 are handled.
type TextMode int

const (
	// TextLossy replaces undecodable content with an empty document.
	TextLossy TextMode = iota

	// TextStrict fails with ErrInvalidText.
	TextStrict
)

// DecodeText interprets decrypted bytes as a note body.
// The boolean result reports whether content was discarded.
func DecodeText(data []byte, mode TextMode) (string, bool, error) {
	if utf8.Valid(data) {
		return string(data), false, nil
	}
	if mode == TextStrict {
		return "", false, lerrors.ErrInvalidText
	}
	return "", true, nil
}
