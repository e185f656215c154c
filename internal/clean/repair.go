// Package clean prepares raw upstream tables for linkage: header renames,
// banner rows, mojibake repair and duplicate removal.
package clean

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// mojibake maps the sequences seen in upstream exports when UTF-8 punctuation
// was decoded as Windows-1252. Used when the whole-string round trip fails.
var mojibake = strings.NewReplacer(
	"â€™", "'",
	"â€˜", "'",
	"â€œ", `"`,
	"â€\u009d", `"`,
	"â€“", "-",
	"â€”", "-",
	"ï¼ˆ", "(",
	"ï¼‰", ")",
)

// typographic folds punctuation the curated sheet mixes with ASCII.
var typographic = strings.NewReplacer(
	"’", "'",
	"‘", "'",
	"“", `"`,
	"”", `"`,
	"–", "-",
	"—", "-",
)

// RepairText undoes UTF-8 text that was decoded as Windows-1252, then folds
// typographic punctuation and full-width ASCII forms. Clean text passes
// through unchanged.
func RepairText(s string) string {
	if isASCII(s) {
		return s
	}
	out := s
	if fixed, ok := roundTrip(s); ok {
		out = fixed
	} else {
		out = mojibake.Replace(out)
	}
	out = typographic.Replace(out)
	out = width.Fold.String(out)
	return norm.NFC.String(out)
}

// roundTrip re-encodes s as Windows-1252 and reads the bytes back as UTF-8.
// It fails when s holds runes outside Windows-1252 or the bytes are not valid
// UTF-8, which is the case for text that was never mangled.
func roundTrip(s string) (string, bool) {
	b, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil || b == s || !utf8.ValidString(b) {
		return "", false
	}
	return b, true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
