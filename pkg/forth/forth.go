package forth

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

type state int

const (
	stateInterpret state = iota
	stateCompile
)

// Options configure one compilation run.
type Options struct {
	PStackBottom string   // parameter stack base, an assembler literal
	PStackSize   int      // parameter stack size in bytes, masked to 8 bits
	Sections     []string // section output order
}

// DefaultOptions returns the standard Atari setup: stack in page 6,
// 256 bytes, sections init/boot/data/text.
func DefaultOptions() Options {
	return Options{
		PStackBottom: "$600",
		PStackSize:   256,
		Sections:     []string{"init", "boot", "data", "text"},
	}
}

// Forth holds all mutable state of one compiler run: the input cursor (plus
// the include stack implicit in recursive CompileText calls), the mode, the
// item list, the dictionary and the compile-time stacks.
type Forth struct {
	opts Options

	in    *Input
	state state
	word  *Word // most recently opened definition

	items []Item
	dict  Dictionary

	stack  []any // compile-time operand stack: int | string | *BranchTarget
	leaves [][]*BranchTarget

	textSection string
	dataSection string

	// position of the end of the outermost source, for StackNotEmptyError
	endFile string
	endLine int
	endCol  int
}

// New builds a compiler and runs the runtime and base-words assets through
// it, so the dictionary and item list already hold the core library.
func New(opts Options) (*Forth, error) {
	f := &Forth{
		opts:        opts,
		textSection: "text",
		dataSection: "data",
	}
	if err := f.CompileText(runtimeText(opts.PStackBottom, opts.PStackSize), "<runtime>"); err != nil {
		return nil, err
	}
	if err := f.CompileText(baseWordsText, "<base-words>"); err != nil {
		return nil, err
	}
	return f, nil
}

// Compile runs src (reported as name in diagnostics) through a fresh
// compiler and returns the rendered assembly.
func Compile(src, name string, opts Options) (string, error) {
	f, err := New(opts)
	if err != nil {
		return "", err
	}
	if err := f.CompileText(src, name); err != nil {
		return "", err
	}
	return f.Finish()
}

// CompileText parses one source text to completion. The previous cursor is
// saved for the duration, which is how [include] nests.
func (f *Forth) CompileText(src, name string) error {
	prev := f.in
	f.in = NewInput(src, name)
	err := f.run()
	f.endFile = f.in.File
	f.endLine, f.endCol = f.in.Pos()
	f.in = prev
	return err
}

func (f *Forth) run() error {
	for {
		tok, ok, err := f.readToken()
		if err != nil {
			return err
		}
		if !ok {
			if f.state == stateCompile {
				line, col := f.in.Pos()
				return &EndOfStreamError{File: f.in.File, Line: line, Column: col}
			}
			return nil
		}
		if f.state == stateInterpret {
			err = f.interpret(tok)
		} else {
			err = f.compile(tok)
		}
		if err != nil {
			return err
		}
	}
}

// readToken fetches the next token, consuming comments. ok is false at a
// clean end of input; an EOF inside an open ( comment is an error.
func (f *Forth) readToken() (Token, bool, error) {
	for {
		tok, ok := f.in.NextToken()
		if !ok {
			return Token{}, false, nil
		}
		switch tok.Text {
		case "\\":
			f.in.SkipLine()
		case "(":
			for {
				t, ok := f.in.NextToken()
				if !ok {
					return Token{}, false, &EndOfStreamError{File: f.in.File, Line: tok.Line, Column: tok.Column}
				}
				if strings.HasSuffix(t.Text, ")") {
					break
				}
			}
		default:
			return tok, true, nil
		}
	}
}

// mustToken fetches the token a construct requires to be present.
func (f *Forth) mustToken() (Token, error) {
	tok, ok, err := f.readToken()
	if err != nil {
		return Token{}, err
	}
	if !ok {
		line, col := f.in.Pos()
		return Token{}, &EndOfStreamError{File: f.in.File, Line: line, Column: col}
	}
	return tok, nil
}

func (f *Forth) push(v any) {
	f.stack = append(f.stack, v)
}

func (f *Forth) pop(tok Token) (any, error) {
	if len(f.stack) == 0 {
		return nil, &StackUnderflowError{File: f.in.File, Line: tok.Line, Column: tok.Column, Word: tok.Text}
	}
	v := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return v, nil
}

func (f *Forth) popInt(tok Token) (int, error) {
	v, err := f.pop(tok)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int)
	if !ok {
		return 0, f.parseErr(tok, "expected a number on the stack")
	}
	return n, nil
}

func (f *Forth) popTarget(tok Token) (*BranchTarget, error) {
	v, err := f.pop(tok)
	if err != nil {
		return nil, err
	}
	t, ok := v.(*BranchTarget)
	if !ok {
		return nil, f.parseErr(tok, "unbalanced control structure")
	}
	return t, nil
}

func (f *Forth) parseErr(tok Token, format string, args ...any) error {
	return &ParseError{
		File:   f.in.File,
		Line:   tok.Line,
		Column: tok.Column,
		Msg:    fmt.Sprintf(format, args...),
	}
}

var (
	decimalRe = regexp.MustCompile(`^-?[0-9]+`)
	hexRe     = regexp.MustCompile(`^-?\$[0-9a-fA-F]+`)
)

// parseNumber recognizes decimal and $-prefixed hex literals, either with a
// leading minus. Both patterns are anchored at the start of the token only.
func parseNumber(text string) (int, bool) {
	if m := hexRe.FindString(text); m != "" {
		neg := strings.HasPrefix(m, "-")
		m = strings.TrimPrefix(m, "-")
		n, err := strconv.ParseInt(strings.TrimPrefix(m, "$"), 16, 64)
		if err != nil {
			return 0, false
		}
		if neg {
			n = -n
		}
		return int(n), true
	}
	if m := decimalRe.FindString(text); m != "" {
		n, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// stackText renders a compile-time stack value as assembler text.
func stackText(v any) (string, bool) {
	switch x := v.(type) {
	case int:
		return strconv.Itoa(x), true
	case string:
		return x, true
	}
	return "", false
}

// execLabel is the text-section label that executes the definition: the word
// label itself for words, the const_/var_ dictionary entry otherwise.
func execLabel(def Def) string {
	switch d := def.(type) {
	case *Constant:
		return d.TextLabel()
	case *Variable:
		return d.TextLabel()
	case *Word:
		return d.Label
	}
	panic("forth: unknown definition kind")
}

func (f *Forth) addItem(it Item) {
	f.items = append(f.items, it)
}

func (f *Forth) interpret(tok Token) error {
	switch tok.Text {
	case ":":
		name, err := f.mustToken()
		if err != nil {
			return err
		}
		f.word = NewWord(name.Text, name.Label(), f.textSection)
		f.addItem(f.word)
		f.state = stateCompile

	case "[include]":
		name, err := f.mustToken()
		if err != nil {
			return err
		}
		path := strings.ReplaceAll(name.Text, "\"", "")
		data, err := os.ReadFile(path)
		if err != nil {
			return &NoSuchFileError{File: f.in.File, Line: name.Line, Column: name.Column, Name: path}
		}
		return f.CompileText(string(data), path)

	case "[code]":
		text, err := f.captureRaw(tok)
		if err != nil {
			return err
		}
		f.addItem(&RawCode{Text: text, Section: f.textSection})

	case "[text-section]":
		name, err := f.mustToken()
		if err != nil {
			return err
		}
		f.textSection = name.Text

	case "[data-section]":
		name, err := f.mustToken()
		if err != nil {
			return err
		}
		f.dataSection = name.Text

	case "variable", "2variable", "create":
		size := 1
		switch tok.Text {
		case "2variable":
			size = 2
		case "create":
			size = 0
		}
		name, err := f.mustToken()
		if err != nil {
			return err
		}
		v := &Variable{
			Name:        name.Text,
			Label:       name.Label(),
			SizeCells:   size,
			TextSection: f.textSection,
			DataSection: f.dataSection,
		}
		f.addItem(v)
		f.dict.Add(v)

	case "constant":
		value, err := f.popInt(tok)
		if err != nil {
			return err
		}
		name, err := f.mustToken()
		if err != nil {
			return err
		}
		c := &Constant{
			Name:        name.Text,
			Label:       name.Label(),
			Value:       value,
			TextSection: f.textSection,
			DataSection: f.dataSection,
		}
		f.addItem(c)
		f.dict.Add(c)

	case ",", "c,":
		v, err := f.pop(tok)
		if err != nil {
			return err
		}
		text, ok := stackText(v)
		if !ok {
			return f.parseErr(tok, "cannot allocate a branch target")
		}
		if tok.Text == "," {
			f.addItem(&RawCode{Text: fmt.Sprintf(" dta a(%s)\n", text), Section: f.dataSection})
		} else {
			f.addItem(&RawCode{Text: fmt.Sprintf(" dta %s\n", text), Section: f.dataSection})
		}

	case `,"`, `"`, `,'`, `'`:
		return f.allocString(tok)

	case "allot":
		n, err := f.popInt(tok)
		if err != nil {
			return err
		}
		f.addItem(&RawCode{Text: fmt.Sprintf(" org *+%d\n", n), Section: f.dataSection})

	case "+", "-", "*", "/":
		b, err := f.popInt(tok)
		if err != nil {
			return err
		}
		a, err := f.popInt(tok)
		if err != nil {
			return err
		}
		switch tok.Text {
		case "+":
			f.push(a + b)
		case "-":
			f.push(a - b)
		case "*":
			f.push(a * b)
		case "/":
			if b == 0 {
				return f.parseErr(tok, "division by zero")
			}
			f.push(a / b)
		}

	case "cells":
		n, err := f.popInt(tok)
		if err != nil {
			return err
		}
		f.push(2 * n)

	case "]":
		if f.word == nil {
			return f.parseErr(tok, "] without an open definition")
		}
		f.state = stateCompile

	default:
		if n, ok := parseNumber(tok.Text); ok {
			f.push(n)
			return nil
		}
		def := f.dict.Find(tok.Text)
		if def == nil {
			return &UnknownWordError{File: f.in.File, Line: tok.Line, Column: tok.Column, Word: tok.Text}
		}
		def.MarkUsed()
		if c, ok := def.(*Constant); ok {
			f.push(c.Value)
		} else {
			f.push(labelOf(def))
		}
	}
	return nil
}

// labelOf is the data/word label an interpret-mode reference pushes.
func labelOf(def Def) string {
	switch d := def.(type) {
	case *Constant:
		return d.Label
	case *Variable:
		return d.Label
	case *Word:
		return d.Label
	}
	panic("forth: unknown definition kind")
}

func (f *Forth) compile(tok Token) error {
	w := f.word
	switch tok.Text {
	case ";":
		w.Append("exit")
		f.dict.Add(w)
		f.state = stateInterpret

	case "recursive":
		w.Recursive = true

	case "[label]":
		name, err := f.mustToken()
		if err != nil {
			return err
		}
		w.Label = name.Text

	case "[code]":
		text, err := f.captureRaw(tok)
		if err != nil {
			return err
		}
		w.InlineCode = &RawCode{Text: text, Section: w.Section}

	case "begin":
		f.push(w.IP())

	case "again":
		ip, err := f.popInt(tok)
		if err != nil {
			return err
		}
		w.Append("branch")
		w.AppendTarget().Resolve(ip)

	case "until":
		ip, err := f.popInt(tok)
		if err != nil {
			return err
		}
		w.Append("until")
		w.AppendTarget().Resolve(ip)

	case "if":
		w.Append("_if")
		f.push(w.AppendTarget())

	case "else":
		w.Append("branch")
		t1 := w.AppendTarget()
		t0, err := f.popTarget(tok)
		if err != nil {
			return err
		}
		t0.Resolve(w.IP())
		f.push(t1)

	case "then":
		t, err := f.popTarget(tok)
		if err != nil {
			return err
		}
		t.Resolve(w.IP())

	case "while":
		w.Append("while")
		f.push(w.AppendTarget())

	case "repeat":
		w.Append("branch")
		t1, err := f.popTarget(tok)
		if err != nil {
			return err
		}
		ip, err := f.popInt(tok)
		if err != nil {
			return err
		}
		w.AppendTarget().Resolve(ip)
		t1.Resolve(w.IP())

	case "[":
		f.state = stateInterpret

	case "literal":
		v, err := f.pop(tok)
		if err != nil {
			return err
		}
		text, ok := stackText(v)
		if !ok {
			return f.parseErr(tok, "cannot compile a branch target as a literal")
		}
		w.Append("lit")
		w.Append(text)

	case "do":
		w.Append("do")
		f.push(w.IP())
		f.leaves = append(f.leaves, nil)

	case "loop", "+loop":
		ip, err := f.popInt(tok)
		if err != nil {
			return err
		}
		if len(f.leaves) == 0 {
			return &StackUnderflowError{File: f.in.File, Line: tok.Line, Column: tok.Column, Word: tok.Text}
		}
		if tok.Text == "loop" {
			w.Append("loop")
		} else {
			w.Append("plus_loop")
		}
		w.AppendTarget().Resolve(ip)
		pending := f.leaves[len(f.leaves)-1]
		f.leaves = f.leaves[:len(f.leaves)-1]
		for _, t := range pending {
			t.Resolve(w.IP())
		}

	case "leave":
		if len(f.leaves) == 0 {
			return &StackUnderflowError{File: f.in.File, Line: tok.Line, Column: tok.Column, Word: tok.Text}
		}
		w.Append("unloop")
		w.Append("branch")
		t := w.AppendTarget()
		f.leaves[len(f.leaves)-1] = append(f.leaves[len(f.leaves)-1], t)

	case "lit":
		name, err := f.mustToken()
		if err != nil {
			return err
		}
		w.Append("lit")
		w.Append(name.Text)

	case "[']":
		name, err := f.mustToken()
		if err != nil {
			return err
		}
		def := f.dict.Find(name.Text)
		if def == nil {
			return &UnknownWordError{File: f.in.File, Line: name.Line, Column: name.Column, Word: name.Text}
		}
		w.Append("lit")
		w.Append(execLabel(def))
		w.Refer(def.DefName())

	default:
		if w.Recursive && tok.Text == w.Name {
			w.Append(w.Label)
			return nil
		}
		if def := f.dict.Find(tok.Text); def != nil {
			w.Append(execLabel(def))
			w.Refer(def.DefName())
			return nil
		}
		if n, ok := parseNumber(tok.Text); ok {
			w.Append("lit")
			w.Append(strconv.Itoa(n))
			return nil
		}
		return &UnknownWordError{File: f.in.File, Line: tok.Line, Column: tok.Column, Word: tok.Text}
	}
	return nil
}

// captureRaw collects the verbatim text between [code] and [end-code].
func (f *Forth) captureRaw(open Token) (string, error) {
	f.in.MarkStart()
	for {
		f.in.MarkEnd()
		t, ok := f.in.NextToken()
		if !ok {
			return "", &EndOfStreamError{File: f.in.File, Line: open.Line, Column: open.Column}
		}
		if t.Text == "[end-code]" {
			break
		}
	}
	text := strings.TrimPrefix(f.in.Marked(), "\n")
	return text, nil
}

// allocString handles the four string-allocating forms. The opening token
// decides counted-ness and encoding; the payload runs verbatim from one
// separator past the opening token to the closing quote, which must end a
// token.
func (f *Forth) allocString(open Token) error {
	counted := open.Text == `,"` || open.Text == `,'`
	antic := open.Text == `,'` || open.Text == `'`
	term := `"`
	if antic {
		term = `'`
	}

	if !f.in.AtEnd() {
		f.in.Next() // the single separator after the opening token
	}
	f.in.MarkStart()
	inverse := false
	for {
		t, ok := f.in.NextToken()
		if !ok {
			return &EndOfStreamError{File: f.in.File, Line: open.Line, Column: open.Column}
		}
		if antic && strings.HasSuffix(t.Text, term+"*") {
			inverse = true
			break
		}
		if strings.HasSuffix(t.Text, term) {
			break
		}
	}
	f.in.MarkEnd()
	text := f.in.Marked()
	if inverse {
		text = text[:len(text)-2]
	} else {
		text = text[:len(text)-1]
	}

	var sb strings.Builder
	if counted {
		fmt.Fprintf(&sb, " dta %d\n", len(text))
	}
	kind := "c"
	if antic {
		kind = "d"
	}
	suffix := ""
	if inverse {
		suffix = "*"
	}
	fmt.Fprintf(&sb, " dta %s'%s'%s\n", kind, text, suffix)
	f.addItem(&RawCode{Text: sb.String(), Section: f.dataSection})
	return nil
}
