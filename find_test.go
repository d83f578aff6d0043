package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAll_Literal(t *testing.T) {
	e := newTestEditor(t, "a = 1\nb = a + a")

	spans := e.findAll("a")
	require.Equal(t, []Span{span(1, 0, 1, 1), span(2, 4, 2, 5), span(2, 8, 2, 9)}, spans)
	assert.Equal(t, spans, e.tags.Ranges(tagFound))
	assert.True(t, e.foundVisible(0))
	assert.True(t, e.foundVisible(1))

	e.lines[1] = "b = 2"
	assert.True(t, e.foundVisible(0))
	assert.False(t, e.foundVisible(1), "marks on an edited line are hidden")

	e.clearFound()
	assert.Empty(t, e.tags.Ranges(tagFound))
	assert.False(t, e.foundVisible(0))
}

func TestFindAll_Regex(t *testing.T) {
	e := newTestEditor(t, "x = 10\ny = 2 + 300")
	e.regexSearch = true

	spans := e.findAll(`\d+`)
	assert.Equal(t, []Span{span(1, 4, 1, 6), span(2, 4, 2, 5), span(2, 8, 2, 11)}, spans)

	assert.Empty(t, e.findAll(`(`))
	assert.Empty(t, e.findAll(""))
}

func TestFindAll_RegexAnchorsSeeWholeText(t *testing.T) {
	e := bufferOf("aaa", "xab")
	e.regexSearch = true

	assert.Equal(t, []Span{span(1, 0, 1, 1)}, e.findAll(`^a`))
	assert.Equal(t, []Span{span(2, 0, 2, 1)}, e.findAll(`^x`), "^ anchors at every line")
	assert.Equal(t, []Span{span(1, 2, 1, 3)}, e.findAll(`a$`))
	assert.Equal(t, []Span{span(1, 0, 1, 3)}, e.findAll(`\ba+\b`))
}

func TestFindAll_BackgroundOnly(t *testing.T) {
	e := newTestEditor(t, "def f(): pass")
	e.findAll("def")

	styles := e.lineStyles(0, len([]rune(e.lines[0])))
	fg, bg, _ := styles[0].Decompose()
	kw, err := hexToTcell(defaultPalette[CategoryKeyword])
	require.NoError(t, err)
	assert.Equal(t, kw, fg, "syntax color stays visible under a search mark")
	assert.Equal(t, foundBackground, bg)
}

func TestReplaceAll_Literal(t *testing.T) {
	e := newTestEditor(t, "a = 1\nb = a + a")
	e.findAll("a")

	n, err := e.replaceAll("a", "value")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"value = 1", "b = value + value"}, e.lines)
	assert.True(t, e.dirty)
	assert.Empty(t, e.tags.Ranges(tagFound))

	e.undo()
	assert.Equal(t, []string{"a = 1", "b = a + a"}, e.lines)
}

func TestReplaceAll_Regex(t *testing.T) {
	e := newTestEditor(t, "x = 10\ny = 2")
	e.regexSearch = true

	n, err := e.replaceAll(`(\w) = (\d+)`, "$1: $2")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"x: 10", "y: 2"}, e.lines)

	_, err = e.replaceAll(`(`, "x")
	assert.Error(t, err)
}

func TestReplaceAll_RegexMatchesFindAll(t *testing.T) {
	e := newTestEditor(t, "ab xx\nx")
	e.regexSearch = true
	found := e.findAll(`x*`)

	n, err := e.replaceAll(`x*`, "y")
	require.NoError(t, err)
	assert.Equal(t, len(found), n, "empty matches are neither marked nor replaced")
	assert.Equal(t, []string{"ab y", "y"}, e.lines)

	e = newTestEditor(t, "a1\na2\nba")
	e.regexSearch = true
	n, err = e.replaceAll(`^a`, "c")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"c1", "c2", "ba"}, e.lines)
}

func TestReplaceAll_NoMatchIsNotAnEdit(t *testing.T) {
	e := newTestEditor(t, "abc")
	n, err := e.replaceAll("zzz", "y")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.False(t, e.dirty)
	assert.Empty(t, e.undoStack)
}

func TestHandleFind(t *testing.T) {
	e := newTestEditor(t, "foo = 1\nbar = foo")

	e.handleFind("foo")
	assert.Equal(t, "foo", e.lastSearch)
	assert.Equal(t, 1, e.cy, "jumps to the next match after the cursor")
	assert.Equal(t, 6, e.cx)
	assert.Contains(t, e.statusText, "2 match(es)")

	e.handleFind("foo")
	assert.Equal(t, 0, e.cy, "wraps around to the top")
	assert.Equal(t, 0, e.cx)

	e.handleFind("foo -> baz")
	assert.Equal(t, []string{"baz = 1", "bar = baz"}, e.lines)
	assert.Contains(t, e.statusText, "Replaced 2")

	e.handleFind("nothing")
	assert.Contains(t, e.statusText, "Not found")
}

func TestToggleRegex(t *testing.T) {
	e := newTestEditor(t, "a1 a2")
	e.lastSearch = `a\d`

	e.toggleRegex()
	assert.True(t, e.regexSearch)
	assert.Contains(t, e.statusText, "Regex On: 2 match(es)")

	e.toggleRegex()
	assert.False(t, e.regexSearch)
	assert.Contains(t, e.statusText, "Regex Off: 0 match(es)")
}
