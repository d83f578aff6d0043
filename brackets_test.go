package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBracketMatcher_Simple(t *testing.T) {
	e := newTestEditor(t, "f(a[1], {2})")

	pair := e.bracketMatcher.findMatchingBracket(0, 1)
	require.NotNil(t, pair)
	assert.Equal(t, BracketPair{OpenLine: 0, OpenCol: 1, CloseLine: 0, CloseCol: 11}, *pair)

	pair = e.bracketMatcher.findMatchingBracket(0, 10)
	require.NotNil(t, pair)
	assert.Equal(t, BracketPair{OpenLine: 0, OpenCol: 8, CloseLine: 0, CloseCol: 10}, *pair)

	assert.Nil(t, e.bracketMatcher.findMatchingBracket(0, 0))
	assert.Nil(t, e.bracketMatcher.findMatchingBracket(5, 0))
}

func TestBracketMatcher_SkipsStringsAndComments(t *testing.T) {
	e := newTestEditor(t, "f(a, ')')\nx = (1  # )\n)")

	pair := e.bracketMatcher.findMatchingBracket(0, 1)
	require.NotNil(t, pair)
	assert.Equal(t, 8, pair.CloseCol)

	pair = e.bracketMatcher.findMatchingBracket(1, 4)
	require.NotNil(t, pair)
	assert.Equal(t, BracketPair{OpenLine: 1, OpenCol: 4, CloseLine: 2, CloseCol: 0}, *pair)

	assert.Nil(t, e.bracketMatcher.findMatchingBracket(0, 6), "brackets inside strings are not matched")
}

func TestBracketMatcher_Unbalanced(t *testing.T) {
	e := newTestEditor(t, "((a)")
	assert.Nil(t, e.bracketMatcher.findMatchingBracket(0, 0))
	assert.NotNil(t, e.bracketMatcher.findMatchingBracket(0, 1))
}

func TestBracketMatcher_AtCursor(t *testing.T) {
	e := newTestEditor(t, "print(x)")
	e.cy, e.cx = 0, 8

	pair := e.bracketMatcher.getBracketAtCursor()
	require.NotNil(t, pair, "the bracket just before the cursor counts")
	assert.Equal(t, 5, pair.OpenCol)

	e.cx = 2
	assert.Nil(t, e.bracketMatcher.getBracketAtCursor())
}
