package scanner

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// DecodeError is returned when the uploaded bytes are not UTF-8 text
type DecodeError struct {
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("file is not valid UTF-8 text: invalid byte sequence at offset %d", e.Offset)
}

// Decode converts raw file bytes into text. A leading UTF-8 byte order mark
// is dropped. Input that is not valid UTF-8 is rejected with a *DecodeError.
func Decode(raw []byte) (string, error) {
	if offset := invalidOffset(raw); offset >= 0 {
		return "", &DecodeError{Offset: offset}
	}

	text, err := unicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode file: %w", err)
	}
	return string(text), nil
}

// invalidOffset returns the position of the first invalid UTF-8 sequence, or -1
func invalidOffset(raw []byte) int {
	if utf8.Valid(raw) {
		return -1
	}

	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRune(raw[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
