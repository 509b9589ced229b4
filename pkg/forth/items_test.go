package forth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBranchTargetResolve(t *testing.T) {
	tests := []struct {
		anchor   int
		target   int
		expected string
	}{
		{4, 8, "*+8"},
		{8, 10, "*+4"},
		{3, 1, "*-4"},
		{17, 6, "*-22"},
		{5, 5, "*+0"},
	}
	for _, tt := range tests {
		bt := &BranchTarget{anchor: tt.anchor}
		bt.Resolve(tt.target)
		assert.Equal(t, tt.expected, bt.resolved)
	}
}

func TestUnresolvedTargetPanics(t *testing.T) {
	w := NewWord("x", "x", "text")
	w.AppendTarget()
	w.MarkUsed()
	assert.Panics(t, func() { w.Render("text") })
}

func TestRawCodeRender(t *testing.T) {
	rc := &RawCode{Text: " lda #0", Section: "boot"}
	assert.Equal(t, " lda #0\n", rc.Render("boot"))
	assert.Equal(t, "", rc.Render("text"))
}

func TestConstantRender(t *testing.T) {
	c := &Constant{Name: "dladr", Label: "dladr", Value: 0x230, TextSection: "text", DataSection: "data"}
	assert.Equal(t, "", c.Render("text"), "unused constants render empty")

	c.MarkUsed()
	assert.Equal(t, "const_dladr\n dta a(const),a(dladr)\n", c.Render("text"))
	assert.Equal(t, "dladr equ $230\n", c.Render("data"))
	assert.Equal(t, "", c.Render("boot"))
}

func TestNegativeConstantRender(t *testing.T) {
	c := &Constant{Name: "m1", Label: "m1", Value: -1, TextSection: "text", DataSection: "data", Used: true}
	assert.Equal(t, "m1 equ $ffff\n", c.Render("data"))
}

func TestVariableRender(t *testing.T) {
	v := &Variable{Name: "pos", Label: "pos", SizeCells: 2, TextSection: "text", DataSection: "data", Used: true}
	assert.Equal(t, "var_pos\n dta a(const),a(pos)\n", v.Render("text"))
	assert.Equal(t, "pos equ *\n org *+4\n", v.Render("data"))

	label := &Variable{Name: "here", Label: "here", SizeCells: 0, TextSection: "text", DataSection: "data", Used: true}
	assert.Equal(t, "here equ *\n", label.Render("data"))
}

func TestWordRender(t *testing.T) {
	w := NewWord("main", "main", "text")
	w.Append("const_dladr")
	w.Append("exit")
	require.Equal(t, "", w.Render("text"), "unused words render empty")

	w.MarkUsed()
	assert.Equal(t, "main\n dta a(enter)\n dta a(const_dladr)\n dta a(exit)\n", w.Render("text"))
	assert.Equal(t, "", w.Render("data"))
}

func TestInlineCodeWordRender(t *testing.T) {
	w := NewWord("dup", "dup", "text")
	w.InlineCode = &RawCode{Text: " dex\n dex\n jmp next", Section: "text"}
	w.Append("exit")
	w.MarkUsed()
	assert.Equal(t, "dup\n dta a(*+2)\n dex\n dex\n jmp next\n", w.Render("text"))
}

func TestWordIPTracksThread(t *testing.T) {
	w := NewWord("x", "x", "text")
	assert.Equal(t, 1, w.IP(), "enter occupies the first cell")
	w.Append("lit")
	w.Append("1")
	assert.Equal(t, 3, w.IP())
	w.AppendTarget()
	assert.Equal(t, 4, w.IP())
}

func TestDictionaryShadowing(t *testing.T) {
	var d Dictionary
	first := &Constant{Name: "x", Label: "x", Value: 1}
	second := &Constant{Name: "x", Label: "x", Value: 2}
	d.Add(first)
	d.Add(second)
	found := d.Find("x")
	require.NotNil(t, found)
	assert.Same(t, second, found, "most recent definition wins")
}

func TestDictionaryAliases(t *testing.T) {
	var d Dictionary
	twoStar := NewWord("2*", "two_star", "text")
	zeroEq := NewWord("0=", "zero_eq", "text")
	d.Add(twoStar)
	d.Add(zeroEq)

	assert.Same(t, twoStar, d.Find("cells"))
	assert.Same(t, twoStar, d.Find("cell"))
	assert.Same(t, twoStar, d.Find("2*"))
	assert.Same(t, zeroEq, d.Find("not"))
	assert.Nil(t, d.Find("missing"))
}
