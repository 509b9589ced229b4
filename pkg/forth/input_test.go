package forth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextToken(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:     "Empty",
			input:    "",
			expected: nil,
		},
		{
			name:     "OnlyWhitespace",
			input:    " \t\n  ",
			expected: nil,
		},
		{
			name:  "SingleLine",
			input: "dup swap !",
			expected: []Token{
				{Text: "dup", Line: 1, Column: 1},
				{Text: "swap", Line: 1, Column: 5},
				{Text: "!", Line: 1, Column: 10},
			},
		},
		{
			name:  "LinesAndColumns",
			input: ": main\n\t1 2\n;",
			expected: []Token{
				{Text: ":", Line: 1, Column: 1},
				{Text: "main", Line: 1, Column: 3},
				{Text: "1", Line: 2, Column: 2},
				{Text: "2", Line: 2, Column: 4},
				{Text: ";", Line: 3, Column: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewInput(tt.input, "test.4th")
			var got []Token
			for {
				tok, ok := in.NextToken()
				if !ok {
					break
				}
				got = append(got, tok)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

// Tokenizing, joining with single spaces and tokenizing again must give the
// same token texts.
func TestTokenizeRoundTrip(t *testing.T) {
	src := ": main\n  10 0 do\ti loop\n;"
	first := tokenTexts(t, src)
	second := tokenTexts(t, strings.Join(first, " "))
	assert.Equal(t, first, second)
}

func tokenTexts(t *testing.T, src string) []string {
	t.Helper()
	in := NewInput(src, "test.4th")
	var texts []string
	for {
		tok, ok := in.NextToken()
		if !ok {
			return texts
		}
		texts = append(texts, tok.Text)
	}
}

func TestSkipLine(t *testing.T) {
	in := NewInput("skipped to eol\nnext", "test.4th")
	in.SkipLine()
	tok, ok := in.NextToken()
	require.True(t, ok)
	assert.Equal(t, "next", tok.Text)
	assert.Equal(t, 2, tok.Line)
}

func TestMarkedSlice(t *testing.T) {
	in := NewInput("head body tail", "test.4th")
	_, ok := in.NextToken()
	require.True(t, ok)
	in.MarkStart()
	_, ok = in.NextToken()
	require.True(t, ok)
	in.MarkEnd()
	assert.Equal(t, " body", in.Marked())
}

func TestPeekNext(t *testing.T) {
	in := NewInput("ab", "test.4th")
	assert.Equal(t, 'a', in.Peek())
	assert.Equal(t, 'a', in.Next())
	assert.Equal(t, 'b', in.Next())
	assert.True(t, in.AtEnd())
	assert.Equal(t, rune(0), in.Next())
}
