// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filename turns document titles into names that are safe to use
// as a single path component on Windows, macOS, and Linux.
package filename

import (
	"strings"
	"unicode"
)

// MaxLength is the maximum length of a safe name, in characters.
const MaxLength = 200

// reserved are the characters Windows forbids in file names; '/' and '\'
// also separate path components elsewhere.
const reserved = `<>:"/\|?*`

// Safe maps title to a file name stem. Reserved characters become spaces
// and each interior whitespace run becomes one underscore; runs at either end
// are dropped. The result is capped at MaxLength characters and trimmed of
// trailing dots. Underscores already in title are kept. Safe(Safe(s)) ==
// Safe(s) for every s.
func Safe(title string) string {
	out := make([]rune, 0, len(title))
	sep := make([]bool, 0, len(title))

	inSpace := false
	for _, r := range title {
		if strings.ContainsRune(reserved, r) {
			r = ' '
		}
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && len(out) > 0 {
			out = append(out, '_')
			sep = append(sep, true)
		}
		inSpace = false
		out = append(out, r)
		sep = append(sep, false)
	}

	if len(out) > MaxLength {
		out = out[:MaxLength]
		// Truncation may leave a separator at the end.
		if sep[MaxLength-1] {
			out = out[:MaxLength-1]
		}
	}
	// Windows drops trailing dots.
	return strings.TrimRight(string(out), ".")
}
