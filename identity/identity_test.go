package identity

import (
	"strings"
	"testing"
)

func TestDeriveFileName(t *testing.T) {
	// WHAT: Characters outside [A-Za-z0-9] become underscores.
	// WHY: The file name is a storage key and the record de-duplication key.
	tests := []struct {
		title string
		want  string
	}{
		{"Q1 Launch!", "Q1_Launch_"},
		{"Schedule", "Schedule"},
		{"a/b\\c", "a_b_c"},
		{"été 2026", "__t__2026"},
		{"", ""},
		{"---", "___"},
	}
	for _, tt := range tests {
		if got := DeriveFileName(tt.title); got != tt.want {
			t.Errorf("DeriveFileName(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestDeriveFileName_Stable(t *testing.T) {
	// WHAT: Same title always yields the same file name.
	// WHY: It is a lookup key; instability would fork broadcast identities.
	title := "Morning Show — Run of Day #4"
	first := DeriveFileName(title)
	for i := 0; i < 100; i++ {
		if got := DeriveFileName(title); got != first {
			t.Fatalf("derivation unstable: %q then %q", first, got)
		}
	}
}

func TestNewCode_ShapeAndAlphabet(t *testing.T) {
	// WHAT: 1000 codes are 6 chars, alphabet-only, no ambiguous characters.
	// WHY: Codes are read aloud and typed by hand; I/O/0/1 confusions are real.
	for i := 0; i < 1000; i++ {
		code := NewCode()
		if len(code) != CodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), CodeLength)
		}
		for _, c := range code {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("code %q contains %q, outside the alphabet", code, c)
			}
			if strings.ContainsRune("IO01l", c) {
				t.Fatalf("code %q contains ambiguous character %q", code, c)
			}
		}
		if !ValidCode(code) {
			t.Fatalf("generated code %q fails ValidCode", code)
		}
	}
}

func TestCodeAlphabetSize(t *testing.T) {
	// WHAT: The alphabet has exactly 33 distinct characters.
	// WHY: Shrinking the alphabet silently lowers code entropy (33^6).
	seen := map[rune]bool{}
	for _, c := range codeAlphabet {
		if seen[c] {
			t.Fatalf("duplicate alphabet character %q", c)
		}
		seen[c] = true
	}
	if len(seen) != 33 {
		t.Errorf("alphabet has %d characters, want 33", len(seen))
	}
}

func TestValidCode(t *testing.T) {
	if ValidCode("abc12") {
		t.Error("5-char string must be invalid")
	}
	if ValidCode("abc10d") {
		t.Error("codes containing '1' or '0' must be invalid")
	}
	if !ValidCode("abcdef") {
		t.Error("abcdef should be valid")
	}
}
