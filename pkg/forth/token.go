package forth

import (
	"fmt"
	"strings"
)

// Token is a single whitespace-delimited lexeme with its source position.
type Token struct {
	Text   string
	Line   int // 1-based source line
	Column int // 1-based source column
}

func (t Token) String() string {
	return fmt.Sprintf("%q at %d:%d", t.Text, t.Line, t.Column)
}

// Is reports whether the token's text equals s.
func (t Token) Is(s string) bool {
	return t.Text == s
}

// labelReplacer rewrites the characters that are legal in word names but not
// in assembler labels.
var labelReplacer = strings.NewReplacer("-", "_", "?", "_is_")

// Canon maps a word name to an assembler label. Idempotent: applying it to
// its own output changes nothing.
func Canon(name string) string {
	return labelReplacer.Replace(name)
}

// Label returns the canonical assembler label for the token's text.
func (t Token) Label() string {
	return Canon(t.Text)
}
