package transport

import (
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var illFormed = runes.ReplaceIllFormed()

// decode turns raw protocol bytes into a string, replacing invalid UTF-8
// with U+FFFD instead of failing.
func decode(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	s, _, err := transform.Bytes(illFormed, b)
	if err != nil { // cannot happen for ReplaceIllFormed
		return string(b)
	}
	return string(s)
}
