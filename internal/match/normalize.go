package match

import (
	"regexp"
	"strings"
)

var multiSpaceRe = regexp.MustCompile(`\s{2,}`)

var punctReplacer = strings.NewReplacer(
	"'", "",
	"’", "",
	"\"", "",
	",", "",
	".", "",
	":", " ",
	";", " ",
	"!", "",
	"?", "",
	"&", "and",
	"-", " ",
	"–", " ",
	"_", " ",
	"(", " ",
	")", " ",
)

// Normalize standardizes a game title for matching by:
//  1. Trimming whitespace
//  2. Converting to lowercase
//  3. Stripping punctuation (apostrophes, commas, periods, dashes, brackets)
//  4. Collapsing multiple spaces into single spaces
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	name = strings.ToLower(name)
	name = punctReplacer.Replace(name)

	name = multiSpaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
