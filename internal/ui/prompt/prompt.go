// Package prompt holds the line editing behind the client console, kept
// free of ebiten so it can be tested headless.
package prompt

import "unicode/utf8"

// Backspace drops the last rune of s.
func Backspace(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
