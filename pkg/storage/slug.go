package storage

import (
	"strings"
	"unicode"
)

// Slugify normalises a human-readable title into a filesystem-safe
// directory name: lowercase, alphanumerics kept, runs of anything else
// collapsed into single hyphens.
//
// Callers that derive storage paths from mutable titles should be aware
// that the result changes when the title changes; files stored under an
// earlier slug are not relocated.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
