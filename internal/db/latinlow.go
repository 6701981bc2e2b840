package db

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letters that have no canonical decomposition into basic Latin.
var latinLowReplacer = strings.NewReplacer(
	"ß", "ss",
	"æ", "ae",
	"œ", "oe",
	"ø", "o",
	"đ", "d",
	"ð", "d",
	"ł", "l",
	"þ", "th",
	"ı", "i",
)

// LatinLow folds s to lowercase basic Latin: compatibility decomposition,
// diacritics removed, then lowercased. Lowercasing comes last because
// compatibility characters such as "ℌ" decompose to uppercase letters.
// The fold is idempotent.
//
// The in-memory text filters and the like() function installed by Open use
// this fold on both sides, so a search matches the same tracks whether it
// runs in Go or in SQLite.
func LatinLow(s string) string {
	if isLowerASCII(s) {
		return s
	}
	// transform.Chain is stateful, build one per call.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return latinLowReplacer.Replace(strings.ToLower(folded))
}

func isLowerASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= utf8.RuneSelf || ('A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}
