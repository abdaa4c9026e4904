package codec

import (
	"errors"
	"unicode/utf8"
)

// Str codes a Go string as its UTF-8 bytes, rejecting invalid encodings on
// decode the way heed-types' Str wrapper rejects non-UTF-8 byte runs.
type Str struct{}

func (Str) EncodeTo(v string) ([]byte, error) { return []byte(v), nil }

func (Str) Decode(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", errInvalidUTF8
	}
	return string(b), nil
}

var errInvalidUTF8 = errors.New("codec: Str: invalid UTF-8")
