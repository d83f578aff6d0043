package main

import (
	"sort"

	"github.com/gdamore/tcell/v2"
)

// Span is a half-open range of buffer positions [Start, End).
type Span struct {
	Start Position
	End   Position
}

func (s Span) contains(p Position) bool {
	return !p.Before(s.Start) && p.Before(s.End)
}

// TagStore keeps named sets of spans and the colors bound to each name.
// Tags touched later take priority when styles overlap.
// TagStore хранит именованные наборы диапазонов и их цвета.
type TagStore struct {
	spans map[string][]Span
	fg    map[string]tcell.Color
	bg    map[string]tcell.Color
	order []string
}

// NewTagStore returns an empty store.
func NewTagStore() *TagStore {
	return &TagStore{
		spans: make(map[string][]Span),
		fg:    make(map[string]tcell.Color),
		bg:    make(map[string]tcell.Color),
	}
}

func (ts *TagStore) register(name string) {
	for _, n := range ts.order {
		if n == name {
			return
		}
	}
	ts.order = append(ts.order, name)
}

// Add tags [start, end) with name, merging with overlapping or touching spans.
func (ts *TagStore) Add(name string, start, end Position) {
	ts.register(name)
	if !start.Before(end) {
		return
	}
	spans := ts.spans[name]
	i := sort.Search(len(spans), func(i int) bool { return !spans[i].End.Before(start) })
	j := i
	for j < len(spans) && !end.Before(spans[j].Start) {
		if spans[j].Start.Before(start) {
			start = spans[j].Start
		}
		if end.Before(spans[j].End) {
			end = spans[j].End
		}
		j++
	}
	merged := make([]Span, 0, len(spans)-(j-i)+1)
	merged = append(merged, spans[:i]...)
	merged = append(merged, Span{Start: start, End: end})
	merged = append(merged, spans[j:]...)
	ts.spans[name] = merged
}

// Remove clears name from [start, end), splitting spans that straddle it.
func (ts *TagStore) Remove(name string, start, end Position) {
	ts.register(name)
	if !start.Before(end) {
		return
	}
	spans := ts.spans[name]
	out := spans[:0:0]
	for _, s := range spans {
		if !s.Start.Before(end) || !start.Before(s.End) {
			out = append(out, s)
			continue
		}
		if s.Start.Before(start) {
			out = append(out, Span{Start: s.Start, End: start})
		}
		if end.Before(s.End) {
			out = append(out, Span{Start: end, End: s.End})
		}
	}
	ts.spans[name] = out
}

// Ranges returns a copy of the spans tagged with name, in buffer order.
func (ts *TagStore) Ranges(name string) []Span {
	return append([]Span(nil), ts.spans[name]...)
}

// SetForeground binds a text color to name.
func (ts *TagStore) SetForeground(name string, c tcell.Color) {
	ts.register(name)
	ts.fg[name] = c
}

// SetBackground binds a background color to name.
func (ts *TagStore) SetBackground(name string, c tcell.Color) {
	ts.register(name)
	ts.bg[name] = c
}

// Foreground returns the text color bound to name.
func (ts *TagStore) Foreground(name string) (tcell.Color, bool) {
	c, ok := ts.fg[name]
	return c, ok
}

// Has reports whether p lies inside a span tagged with name.
func (ts *TagStore) Has(name string, p Position) bool {
	spans := ts.spans[name]
	i := sort.Search(len(spans), func(i int) bool { return p.Before(spans[i].End) })
	return i < len(spans) && spans[i].contains(p)
}

// LineStyles returns one style per rune of buffer line (1-based) holding
// n runes, starting from base and layering every colored tag in priority
// order. A non-nil visible filters the tags that take part.
// LineStyles возвращает стиль для каждой руны строки.
func (ts *TagStore) LineStyles(line, n int, base tcell.Style, visible func(name string) bool) []tcell.Style {
	styles := make([]tcell.Style, n)
	for i := range styles {
		styles[i] = base
	}
	for _, name := range ts.order {
		fg, hasFg := ts.fg[name]
		bg, hasBg := ts.bg[name]
		if (!hasFg && !hasBg) || (visible != nil && !visible(name)) {
			continue
		}
		spans := ts.spans[name]
		i := sort.Search(len(spans), func(i int) bool { return spans[i].End.Line >= line })
		for ; i < len(spans) && spans[i].Start.Line <= line; i++ {
			from, to := 0, n
			if spans[i].Start.Line == line {
				from = spans[i].Start.Col
			}
			if spans[i].End.Line == line && spans[i].End.Col < to {
				to = spans[i].End.Col
			}
			for c := from; c < to; c++ {
				if hasFg {
					styles[c] = styles[c].Foreground(fg)
				}
				if hasBg {
					styles[c] = styles[c].Background(bg)
				}
			}
		}
	}
	return styles
}
