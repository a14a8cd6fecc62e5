package sanitization

import "testing"

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Jane   Doe ", "Jane Doe"},
		{"Jane\tDoe", "Jane Doe"},
		{"Jane\x00\x07Doe", "JaneDoe"},
		{"Jane\nDoe", "JaneDoe"},
		{"Анна  Каренина", "Анна Каренина"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SanitizeString(tt.in); got != tt.want {
				t.Errorf("SanitizeString(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeMessage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello\r\nWorld", "Hello\nWorld"},
		{"  Hello   there  \n\n\n\n\nBye ", "Hello there\n\nBye"},
		{"a\x1bb\n c", "ab\nc"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SanitizeMessage(tt.in); got != tt.want {
				t.Errorf("SanitizeMessage(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeEmail(t *testing.T) {
	if got := SanitizeEmail("  Jane@Example.COM "); got != "jane@example.com" {
		t.Errorf("SanitizeEmail() = %q", got)
	}
}
