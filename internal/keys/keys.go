// Package keys provides musical key ids, notations and harmonic
// compatibility.
package keys

import (
	"regexp"
	"strconv"
	"strings"
)

// ChromaticKey identifies one of the 24 major and minor keys.
// The numeric value is stored in the key_id column.
type ChromaticKey int

// Invalid is the zero key. Majors follow from C (1) to B (12), then
// minors from C (13) to B (24).
const (
	Invalid ChromaticKey = iota
	CMajor
	DFlatMajor
	DMajor
	EFlatMajor
	EMajor
	FMajor
	FSharpMajor
	GMajor
	AFlatMajor
	AMajor
	BFlatMajor
	BMajor
	CMinor
	CSharpMinor
	DMinor
	EFlatMinor
	EMinor
	FMinor
	FSharpMinor
	GMinor
	GSharpMinor
	AMinor
	BFlatMinor
	BMinor
)

var (
	majorNames = [12]string{"C", "Db", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"}
	minorNames = [12]string{"Cm", "C#m", "Dm", "Ebm", "Em", "Fm", "F#m", "Gm", "G#m", "Am", "Bbm", "Bm"}
)

// FromTonic returns the key with the given pitch class (0 = C) and mode.
func FromTonic(pitchClass int, minor bool) ChromaticKey {
	pc := ((pitchClass % 12) + 12) % 12
	if minor {
		return ChromaticKey(13 + pc)
	}
	return ChromaticKey(1 + pc)
}

// Valid reports whether k is one of the 24 keys.
func (k ChromaticKey) Valid() bool {
	return k >= CMajor && k <= BMinor
}

// IsMinor reports whether k is a minor key.
func (k ChromaticKey) IsMinor() bool {
	return k >= CMinor && k <= BMinor
}

// Tonic returns the pitch class of the key's root, 0 for C.
// Returns -1 for invalid keys.
func (k ChromaticKey) Tonic() int {
	switch {
	case !k.Valid():
		return -1
	case k.IsMinor():
		return int(k - CMinor)
	default:
		return int(k - CMajor)
	}
}

// String returns the traditional notation, e.g. "F#m".
func (k ChromaticKey) String() string {
	if !k.Valid() {
		return ""
	}
	if k.IsMinor() {
		return minorNames[k.Tonic()]
	}
	return majorNames[k.Tonic()]
}

// camelotNumber returns the wheel position (1-12) of k.
func (k ChromaticKey) camelotNumber() int {
	pc := k.Tonic()
	if k.IsMinor() {
		// A minor shares 8 with its relative C major.
		pc = (pc + 3) % 12
	}
	return (pc*7+7)%12 + 1
}

// Camelot returns the Camelot wheel notation, e.g. "8A" for A minor.
func (k ChromaticKey) Camelot() string {
	if !k.Valid() {
		return ""
	}
	suffix := "B"
	if k.IsMinor() {
		suffix = "A"
	}
	return strconv.Itoa(k.camelotNumber()) + suffix
}

// OpenKey returns the Open Key notation, e.g. "1m" for A minor.
func (k ChromaticKey) OpenKey() string {
	if !k.Valid() {
		return ""
	}
	suffix := "d"
	if k.IsMinor() {
		suffix = "m"
	}
	return strconv.Itoa((k.camelotNumber()+4)%12+1) + suffix
}

// Relative returns the relative minor of a major key and vice versa.
func (k ChromaticKey) Relative() ChromaticKey {
	if !k.Valid() {
		return Invalid
	}
	if k.IsMinor() {
		return FromTonic(k.Tonic()+3, false)
	}
	return FromTonic(k.Tonic()+9, true)
}

// FifthUp returns the key a perfect fifth above, in the same mode.
func (k ChromaticKey) FifthUp() ChromaticKey {
	if !k.Valid() {
		return Invalid
	}
	return FromTonic(k.Tonic()+7, k.IsMinor())
}

// FifthDown returns the key a perfect fifth below, in the same mode.
func (k ChromaticKey) FifthDown() ChromaticKey {
	if !k.Valid() {
		return Invalid
	}
	return FromTonic(k.Tonic()+5, k.IsMinor())
}

// Compatible returns the keys that mix harmonically with k: k itself, its
// relative, and its neighbours a fifth up and down.
// An invalid key is only compatible with itself.
func Compatible(k ChromaticKey) []ChromaticKey {
	if !k.Valid() {
		return []ChromaticKey{k}
	}
	return []ChromaticKey{k, k.Relative(), k.FifthUp(), k.FifthDown()}
}

var (
	camelotRe     = regexp.MustCompile(`^(1[0-2]|0?[1-9])([ABab])$`)
	openKeyRe     = regexp.MustCompile(`^(1[0-2]|0?[1-9])([dDmM])$`)
	traditionalRe = regexp.MustCompile(`^([A-Ga-g])([#♯b♭]?)\s*(m|min|minor|maj|major)?$`)
)

var pitchClasses = map[byte]int{
	'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11,
}

// Parse reads a key in traditional ("C#m", "Dbm", "A"), Camelot ("8A")
// or Open Key ("1m") notation. A lowercase tonic without a mode means
// minor ("am"). Returns Invalid if text is not a key.
func Parse(text string) ChromaticKey {
	text = strings.TrimSpace(text)
	if text == "" {
		return Invalid
	}

	if m := camelotRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return fromCamelot(n, strings.EqualFold(m[2], "A"))
	}
	if m := openKeyRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		// Open Key 1 is Camelot 8.
		return fromCamelot((n+6)%12+1, strings.EqualFold(m[2], "m"))
	}

	m := traditionalRe.FindStringSubmatch(text)
	if m == nil {
		return Invalid
	}
	tonic := m[1]
	pc := pitchClasses[strings.ToLower(tonic)[0]]
	switch m[2] {
	case "#", "♯":
		pc++
	case "b", "♭":
		pc--
	}

	var minor bool
	switch strings.ToLower(m[3]) {
	case "m", "min", "minor":
		minor = true
	case "maj", "major":
		minor = false
	default:
		minor = tonic[0] >= 'a' && tonic[0] <= 'g'
	}
	return FromTonic(pc, minor)
}

func fromCamelot(n int, minor bool) ChromaticKey {
	// Camelot n major has pitch class (n-8)*7 mod 12.
	pc := (((n - 8) * 7 % 12) + 12) % 12
	if minor {
		return FromTonic(pc+9, true)
	}
	return FromTonic(pc, false)
}
