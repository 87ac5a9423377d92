package entity

import (
	"strings"
	"unicode"
)

const (
	MaxUserIDLen  = 128
	MaxAssetIDLen = 1024
)

// ValidUserID reports whether id is an identity-provider user id: non-empty,
// at most MaxUserIDLen bytes, no whitespace or control characters.
// Ids are compared byte for byte and never trimmed.
func ValidUserID(id string) bool {
	if id == "" || len(id) > MaxUserIDLen {
		return false
	}
	return strings.IndexFunc(id, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) < 0
}

// ValidAssetID reports whether id is a relative bucket key: non-empty, no
// surrounding whitespace, no leading slash, no ".." segment and no control
// characters. Inner spaces are allowed.
func ValidAssetID(id string) bool {
	if id == "" || len(id) > MaxAssetIDLen || strings.TrimSpace(id) != id || strings.HasPrefix(id, "/") {
		return false
	}
	for _, seg := range strings.Split(id, "/") {
		if seg == ".." {
			return false
		}
	}
	return strings.IndexFunc(id, unicode.IsControl) < 0
}
