// Package identity turns display names into canonical comparison keys.
//
// Every matcher in the system calls Normalize independently against every
// source, so two spellings of the same athlete must collapse to the same
// key or matching fails silently. The transformation is pure and
// idempotent: Normalize(Normalize(x)) == Normalize(x).
package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks (diacritics), and
// recomposes. "José" and "Jose" normalize identically.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// punctToSpace collapses the punctuation that sources disagree on.
// "O'Malley" vs "O Malley", "Song Kenan" vs "Song-Kenan".
var punctToSpace = strings.NewReplacer(
	"'", " ",
	"’", " ", // right single quote
	"`", " ",
	"-", " ",
	"–", " ", // en dash
	"—", " ", // em dash
)

// honorifics are generational suffixes stripped from the end of a name.
var honorifics = map[string]struct{}{
	"JR":  {},
	"SR":  {},
	"II":  {},
	"III": {},
	"IV":  {},
}

// Normalize maps a display name to its canonical comparison key:
// diacritics stripped, apostrophes and hyphens collapsed to spaces,
// whitespace collapsed, uppercased, and trailing honorific suffixes
// (Jr., Sr., II–IV) removed.
func Normalize(name string) string {
	s, _, err := transform.String(stripMarks, name)
	if err != nil {
		// Malformed input: fall back to the raw string; the remaining
		// steps still produce a usable key.
		s = name
	}
	s = punctToSpace.Replace(s)
	s = strings.ToUpper(s)

	fields := strings.Fields(s)
	for len(fields) > 1 {
		last := strings.TrimSuffix(fields[len(fields)-1], ".")
		if _, ok := honorifics[last]; !ok {
			break
		}
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}
