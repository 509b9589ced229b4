package forth

import (
	"fmt"
	"strings"
)

// Item is one output fragment. Items accumulate in source order on a single
// list; rendering asks every item for its contribution to each section in
// turn, and an item that has nothing to say for a section returns "".
type Item interface {
	Render(section string) string
}

// Def is an Item that has a dictionary name and participates in dead-code
// elimination via its used flag.
type Def interface {
	Item
	DefName() string
	MarkUsed()
}

// BranchTarget is a forward- or backward-patchable cell in a word's thread.
// The anchor is the thread index just past the target's own cell; Resolve
// turns the handle into the assembler-relative form "*+N" or "*-N" with
// N = 2*|target-anchor| (cells are two bytes).
type BranchTarget struct {
	anchor   int
	resolved string
}

// Resolve fixes the target to the given thread index.
func (t *BranchTarget) Resolve(targetIP int) {
	n := 2 * (targetIP - t.anchor)
	if n < 0 {
		t.resolved = fmt.Sprintf("*-%d", -n)
	} else {
		t.resolved = fmt.Sprintf("*+%d", n)
	}
}

// Resolved reports whether Resolve has been called.
func (t *BranchTarget) Resolved() bool {
	return t.resolved != ""
}

// cell is one slot of a word's thread: either a literal assembler text
// (a primitive label, a user word label, a number) or a branch target
// whose text is known only after resolution.
type cell struct {
	label  string
	target *BranchTarget
}

func (c cell) text() string {
	if c.target == nil {
		return c.label
	}
	if !c.target.Resolved() {
		panic("forth: unresolved branch target in thread")
	}
	return c.target.resolved
}

// RawCode is a verbatim assembly fragment bound to one section.
type RawCode struct {
	Text    string
	Section string
}

func (r *RawCode) Render(section string) string {
	if section != r.Section {
		return ""
	}
	if !strings.HasSuffix(r.Text, "\n") {
		return r.Text + "\n"
	}
	return r.Text
}

// Constant is a named compile-time integer. In its text section it renders
// a dictionary entry pushing the value through the const handler; in its
// data section it renders the label as an equ.
type Constant struct {
	Name        string
	Label       string
	Value       int
	TextSection string
	DataSection string
	Used        bool
}

func (c *Constant) DefName() string { return c.Name }
func (c *Constant) MarkUsed()       { c.Used = true }

// TextLabel is the label of the constant's text-section dictionary entry.
func (c *Constant) TextLabel() string { return "const_" + c.Label }

func (c *Constant) Render(section string) string {
	if !c.Used {
		return ""
	}
	switch section {
	case c.TextSection:
		return fmt.Sprintf("%s\n dta a(const),a(%s)\n", c.TextLabel(), c.Label)
	case c.DataSection:
		return fmt.Sprintf("%s equ $%x\n", c.Label, uint16(c.Value))
	}
	return ""
}

// Variable is a named data-section cell run; SizeCells 0 is a bare label
// (create).
type Variable struct {
	Name        string
	Label       string
	SizeCells   int
	TextSection string
	DataSection string
	Used        bool
}

func (v *Variable) DefName() string { return v.Name }
func (v *Variable) MarkUsed()       { v.Used = true }

// TextLabel is the label of the variable's text-section dictionary entry.
func (v *Variable) TextLabel() string { return "var_" + v.Label }

func (v *Variable) Render(section string) string {
	if !v.Used {
		return ""
	}
	switch section {
	case v.TextSection:
		return fmt.Sprintf("%s\n dta a(const),a(%s)\n", v.TextLabel(), v.Label)
	case v.DataSection:
		if v.SizeCells > 0 {
			return fmt.Sprintf("%s equ *\n org *+%d\n", v.Label, 2*v.SizeCells)
		}
		return fmt.Sprintf("%s equ *\n", v.Label)
	}
	return ""
}

// Word is one compiled definition: a label plus either an indirect-threaded
// cell stream or an inline assembly body.
type Word struct {
	Name            string
	Label           string
	Section         string
	ReferencedNames []string
	InlineCode      *RawCode
	Recursive       bool
	Used            bool

	thread []cell
}

// NewWord starts a definition; the thread opens with the enter code field.
func NewWord(name, label, section string) *Word {
	w := &Word{Name: name, Label: label, Section: section}
	w.Append("enter")
	return w
}

func (w *Word) DefName() string { return w.Name }
func (w *Word) MarkUsed()       { w.Used = true }

// IP is the current thread length, the index the next appended cell will
// occupy.
func (w *Word) IP() int {
	return len(w.thread)
}

// Append adds a literal cell.
func (w *Word) Append(label string) {
	w.thread = append(w.thread, cell{label: label})
}

// AppendTarget adds a fresh branch-target cell anchored just past itself
// and returns the handle for later resolution.
func (w *Word) AppendTarget() *BranchTarget {
	t := &BranchTarget{anchor: len(w.thread) + 1}
	w.thread = append(w.thread, cell{target: t})
	return t
}

// Refer records a dictionary name used by this word, for reachability.
func (w *Word) Refer(name string) {
	w.ReferencedNames = append(w.ReferencedNames, name)
}

func (w *Word) Render(section string) string {
	if !w.Used || section != w.Section {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(w.Label)
	sb.WriteByte('\n')
	if w.InlineCode != nil {
		sb.WriteString(" dta a(*+2)\n")
		body := w.InlineCode.Text
		sb.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			sb.WriteByte('\n')
		}
		return sb.String()
	}
	for _, c := range w.thread {
		fmt.Fprintf(&sb, " dta a(%s)\n", c.text())
	}
	return sb.String()
}
