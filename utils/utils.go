package utils

import (
	"strconv"
	"strings"

	"github.com/twmb/murmur3"
)

func HashString(s string) uint64 {
	hash := murmur3.New64()
	_, err := hash.Write([]byte(s))
	if err != nil {
		panic(err)
	}
	return hash.Sum64()
}

func HashStrings(ss ...string) uint64 {
	hash := murmur3.New64()
	for _, s := range ss {
		_, err := hash.Write([]byte(s))
		if err != nil {
			panic(err)
		}
		// separator, so that ("ab", "c") and ("a", "bc") differ
		_, _ = hash.Write([]byte{0})
	}
	return hash.Sum64()
}

// HashKey builds a storage key from a prefix and the murmur3 hash of s.
func HashKey(prefix string, s string) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteString(strconv.FormatUint(HashString(s), 16))
	return sb.String()
}
