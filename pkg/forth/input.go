package forth

// Input is a character cursor over one source file. It tracks the 1-based
// line/column of the next rune and supports marking a span of the raw text
// for verbatim capture (string literals, [code] blocks).
type Input struct {
	File string

	src    []rune
	pos    int // index of the next rune to consume
	line   int
	column int

	markStart int
	markEnd   int
}

// NewInput wraps src, which is reported in diagnostics as file.
func NewInput(src, file string) *Input {
	return &Input{File: file, src: []rune(src), line: 1, column: 1}
}

// AtEnd reports whether the whole source has been consumed.
func (in *Input) AtEnd() bool {
	return in.pos >= len(in.src)
}

// Peek returns the next rune without advancing, or 0 at end of stream.
func (in *Input) Peek() rune {
	if in.pos >= len(in.src) {
		return 0
	}
	return in.src[in.pos]
}

// Next consumes one rune and returns it, or 0 at end of stream.
func (in *Input) Next() rune {
	if in.pos >= len(in.src) {
		return 0
	}
	r := in.src[in.pos]
	in.pos++
	if r == '\n' {
		in.line++
		in.column = 1
	} else {
		in.column++
	}
	return r
}

// SkipLine discards everything up to and including the next newline.
func (in *Input) SkipLine() {
	for in.pos < len(in.src) && in.Next() != '\n' {
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}

// SkipWhitespace advances past spaces, tabs and newlines.
func (in *Input) SkipWhitespace() {
	for in.pos < len(in.src) && isSpace(in.Peek()) {
		in.Next()
	}
}

// NextToken skips whitespace and returns the next maximal run of
// non-whitespace characters. ok is false at end of stream.
func (in *Input) NextToken() (tok Token, ok bool) {
	in.SkipWhitespace()
	if in.AtEnd() {
		return Token{}, false
	}
	tok.Line = in.line
	tok.Column = in.column
	start := in.pos
	for in.pos < len(in.src) && !isSpace(in.Peek()) {
		in.Next()
	}
	tok.Text = string(in.src[start:in.pos])
	return tok, true
}

// MarkStart records the current offset as the beginning of a marked span.
func (in *Input) MarkStart() {
	in.markStart = in.pos
}

// MarkEnd records the current offset as the end of a marked span.
func (in *Input) MarkEnd() {
	in.markEnd = in.pos
}

// Marked returns the raw text between the recorded marks.
func (in *Input) Marked() string {
	return string(in.src[in.markStart:in.markEnd])
}

// Pos returns the line/column that diagnostics should report for the
// current position.
func (in *Input) Pos() (line, column int) {
	return in.line, in.column
}
