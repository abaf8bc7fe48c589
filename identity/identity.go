// Package identity derives the durable identifiers of a broadcast: the
// filesystem-safe file name used as its de-duplication key, and the short
// human-shareable lookup code.
package identity

import "crypto/rand"

// codeAlphabet holds the 33 characters a broadcast code may contain.
// Visually ambiguous characters (I, O, 0, 1, l) are excluded so codes
// survive being read aloud or copied by hand.
const codeAlphabet = "abcdefghijkmnopqrstuvwxyz23456789"

// CodeLength is the fixed length of a broadcast code.
const CodeLength = 6

// DeriveFileName maps a human-readable title to a filesystem/key-safe
// identifier by replacing every character outside [A-Za-z0-9] with '_'.
// The derivation is stable: it is the lookup key for the broadcast record,
// so the same title must always yield the same file name.
func DeriveFileName(title string) string {
	out := make([]byte, 0, len(title))
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, byte(r))
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

// NewCode returns a fresh 6-character broadcast code drawn uniformly at
// random from the code alphabet. A code is generated once at record
// creation and never regenerated for the lifetime of the record.
func NewCode() string {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		panic("identity: crypto/rand failed: " + err.Error())
	}
	code := make([]byte, CodeLength)
	for i := range code {
		code[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return string(code)
}

// ValidCode reports whether s has the shape of a broadcast code.
func ValidCode(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !inAlphabet(s[i]) {
			return false
		}
	}
	return true
}

func inAlphabet(c byte) bool {
	for i := 0; i < len(codeAlphabet); i++ {
		if codeAlphabet[i] == c {
			return true
		}
	}
	return false
}
