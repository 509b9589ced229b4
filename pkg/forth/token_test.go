package forth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanon(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"main", "main"},
		{"foo-bar", "foo_bar"},
		{"empty?", "empty_is_"},
		{"is-empty?", "is_empty_is_"},
		{"x", "x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Canon(tt.name), "Canon(%q)", tt.name)
	}
}

// Canon is idempotent: a canonical label maps to itself.
func TestCanonIdempotent(t *testing.T) {
	for _, name := range []string{"foo-bar", "empty?", "a-b?c-d", "plain"} {
		once := Canon(name)
		assert.Equal(t, once, Canon(once))
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		text  string
		value int
		ok    bool
	}{
		{"0", 0, true},
		{"123", 123, true},
		{"-5", -5, true},
		{"$230", 0x230, true},
		{"$ff", 255, true},
		{"-$10", -16, true},
		{"5x", 5, true}, // the pattern is anchored at the start only
		{"x5", 0, false},
		{"$", 0, false},
		{"-", 0, false},
		{"dup", 0, false},
	}
	for _, tt := range tests {
		n, ok := parseNumber(tt.text)
		assert.Equal(t, tt.ok, ok, "parseNumber(%q) ok", tt.text)
		if tt.ok {
			assert.Equal(t, tt.value, n, "parseNumber(%q)", tt.text)
		}
	}
}
