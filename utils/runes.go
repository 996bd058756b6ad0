package utils

import (
	"unicode"
)

// IsWordRune reports whether r is a word character: a letter, any number
// or '_'.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.In(r, unicode.L, unicode.N)
}

func IsDigits(runes []rune) bool {
	if len(runes) == 0 {
		return false
	}
	for _, r := range runes {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
