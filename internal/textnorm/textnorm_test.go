package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Café", "cafe"},
		{"  MrBeast  ", "mrbeast"},
		{"ÀÉÎÕÜ", "aeiou"},
		{"already plain", "already plain"},
		{"", ""},
		{"Señor Müller", "senor muller"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeNeverPanics(t *testing.T) {
	// Arbitrary garbage including invalid UTF-8 must not panic.
	inputs := []string{"\xff\xfe", "a\xc0b", string([]byte{0xed, 0xa0, 0x80})}
	for _, in := range inputs {
		_ = Normalize(in) // just must not panic
	}
}

func TestContainsTerm(t *testing.T) {
	tests := []struct {
		haystack string
		term     string
		want     bool
	}{
		{"café", "cafe", true},        // diacritic-insensitive
		{"scaffold", "cat", false},    // substring but not whole word
		{"scatter brain", "cat", false},
		{"the cat sat", "cat", true},
		{"the cats sat", "cat", true},   // plural
		{"the cat's toy", "cat", true},  // possessive
		{"concatenate", "cat", false},
		{"CAT videos", "cat", true},
		{"cat", "cat", true},
		{"cat!", "cat", true},
		{"#cat", "cat", true},
		{"my_cat", "cat", false}, // underscore is a word rune
		{"cats", "cats", true},
		{"", "cat", false},
		{"cat", "", false},
		{"drôle de chàt", "chat", true},
		{"best of 2024", "2024", true},
		{"best of 20245", "2024", false},
	}
	for _, tt := range tests {
		if got := ContainsTerm(tt.haystack, tt.term); got != tt.want {
			t.Errorf("ContainsTerm(%q, %q) = %v, want %v", tt.haystack, tt.term, got, tt.want)
		}
	}
}
