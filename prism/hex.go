package prism

import (
	"strings"
	"unicode/utf8"
)

const maxHexLen = 6

// IsValidHex reports whether s is accepted as a frame background color: at
// most six characters, at least one of which is a hex digit. Other
// characters are not rejected, so "zz1" passes.
func IsValidHex(s string) bool {
	if utf8.RuneCountInString(s) > maxHexLen {
		return false
	}
	return strings.ContainsAny(strings.ToUpper(s), "0123456789ABCDEF")
}
