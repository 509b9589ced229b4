package forth

import (
	"fmt"
	"strings"
)

// Finish verifies the compile-time stack is empty, marks the definitions
// reachable from main and renders the sections in their configured order.
func (f *Forth) Finish() (string, error) {
	if len(f.stack) > 0 {
		return "", &StackNotEmptyError{File: f.endFile, Line: f.endLine, Column: f.endCol}
	}
	f.markUsed()
	return f.render(), nil
}

// markUsed computes the transitive closure of word references starting at
// main. Constants and variables referenced in interpret mode were already
// marked at their point of use.
func (f *Forth) markUsed() {
	seen := make(map[string]bool)
	var visit func(name string)
	visit = func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		def := f.dict.Find(name)
		if def == nil {
			return
		}
		def.MarkUsed()
		if w, ok := def.(*Word); ok {
			for _, ref := range w.ReferencedNames {
				visit(ref)
			}
		}
	}
	visit("main")

	// Words can also be marked outside the closure, by interpret-mode
	// references whose labels end up in data; their references count too.
	for _, it := range f.items {
		if w, ok := it.(*Word); ok && w.Used {
			for _, ref := range w.ReferencedNames {
				visit(ref)
			}
		}
	}
}

// render concatenates the per-section output of every item, in item order,
// section by section.
func (f *Forth) render() string {
	var sb strings.Builder
	for i, section := range f.opts.Sections {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "; section %s\n", section)
		for _, item := range f.items {
			sb.WriteString(item.Render(section))
		}
	}
	return sb.String()
}
