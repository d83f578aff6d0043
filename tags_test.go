package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagStore_AddMerges(t *testing.T) {
	ts := NewTagStore()
	ts.Add("a", Position{1, 0}, Position{1, 3})
	ts.Add("a", Position{1, 2}, Position{1, 5})
	require.Equal(t, []Span{span(1, 0, 1, 5)}, ts.Ranges("a"))

	// touching spans merge too
	ts.Add("a", Position{1, 5}, Position{1, 7})
	require.Equal(t, []Span{span(1, 0, 1, 7)}, ts.Ranges("a"))

	ts.Add("a", Position{2, 0}, Position{2, 1})
	ts.Add("a", Position{1, 9}, Position{1, 10})
	require.Equal(t, []Span{span(1, 0, 1, 7), span(1, 9, 1, 10), span(2, 0, 2, 1)}, ts.Ranges("a"))

	// one span swallowing several
	ts.Add("a", Position{1, 1}, Position{3, 0})
	require.Equal(t, []Span{span(1, 0, 3, 0)}, ts.Ranges("a"))
}

func TestTagStore_EmptyRangeIgnored(t *testing.T) {
	ts := NewTagStore()
	ts.Add("a", Position{1, 3}, Position{1, 3})
	ts.Add("a", Position{2, 0}, Position{1, 0})
	assert.Empty(t, ts.Ranges("a"))
}

func TestTagStore_RemoveSplits(t *testing.T) {
	ts := NewTagStore()
	ts.Add("a", Position{1, 0}, Position{1, 7})
	ts.Remove("a", Position{1, 2}, Position{1, 4})
	require.Equal(t, []Span{span(1, 0, 1, 2), span(1, 4, 1, 7)}, ts.Ranges("a"))

	assert.True(t, ts.Has("a", Position{1, 1}))
	assert.False(t, ts.Has("a", Position{1, 2}))
	assert.False(t, ts.Has("a", Position{1, 3}))
	assert.True(t, ts.Has("a", Position{1, 4}))
	assert.False(t, ts.Has("a", Position{1, 7}))
	assert.False(t, ts.Has("b", Position{1, 1}))

	ts.Remove("a", StartOfText, EndOfText)
	assert.Empty(t, ts.Ranges("a"))
}

func TestTagStore_LineStyles(t *testing.T) {
	ts := NewTagStore()
	ts.SetForeground("red", tcell.ColorRed)
	ts.Add("red", Position{1, 1}, Position{1, 3})
	ts.Add("red", Position{2, 2}, Position{4, 1})

	fgAt := func(styles []tcell.Style, i int) tcell.Color {
		fg, _, _ := styles[i].Decompose()
		return fg
	}

	line1 := ts.LineStyles(1, 4, styleDefault, nil)
	assert.Equal(t, tcell.ColorWhite, fgAt(line1, 0))
	assert.Equal(t, tcell.ColorRed, fgAt(line1, 1))
	assert.Equal(t, tcell.ColorRed, fgAt(line1, 2))
	assert.Equal(t, tcell.ColorWhite, fgAt(line1, 3))

	line3 := ts.LineStyles(3, 3, styleDefault, nil)
	for i := range line3 {
		assert.Equal(t, tcell.ColorRed, fgAt(line3, i))
	}

	line4 := ts.LineStyles(4, 3, styleDefault, nil)
	assert.Equal(t, tcell.ColorRed, fgAt(line4, 0))
	assert.Equal(t, tcell.ColorWhite, fgAt(line4, 1))

	hidden := ts.LineStyles(1, 4, styleDefault, func(string) bool { return false })
	assert.Equal(t, tcell.ColorWhite, fgAt(hidden, 1))
}

func TestTagStore_LaterTagsWin(t *testing.T) {
	ts := NewTagStore()
	ts.SetForeground("low", tcell.ColorRed)
	ts.SetForeground("high", tcell.ColorGreen)
	ts.SetBackground("bg", tcell.ColorYellow)
	ts.Add("high", Position{1, 0}, Position{1, 2})
	ts.Add("low", Position{1, 0}, Position{1, 4})
	ts.Add("bg", Position{1, 1}, Position{1, 3})

	styles := ts.LineStyles(1, 4, styleDefault, nil)
	fg, bg, _ := styles[1].Decompose()
	assert.Equal(t, tcell.ColorGreen, fg)
	assert.Equal(t, tcell.ColorYellow, bg)

	fg, bg, _ = styles[3].Decompose()
	assert.Equal(t, tcell.ColorRed, fg)
	assert.Equal(t, tcell.ColorBlack, bg)
}
