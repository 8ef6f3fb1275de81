package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already clean", "Board Room", "Board Room"},
		{"leading and trailing spaces", "  Board Room  ", "Board Room"},
		{"internal runs collapsed", "Board    Room", "Board Room"},
		{"tabs and newlines", "Board\t\nRoom", "Board Room"},
		{"only whitespace", "   \t\n  ", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Dana@Example.COM", "dana@example.com"},
		{"  dana@example.com ", "dana@example.com"},
		{"dana@example.com", "dana@example.com"},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
