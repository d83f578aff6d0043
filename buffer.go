package main

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// TextBuffer is what the highlighter needs from a text widget: the full
// text, position-addressed search and named tags bound to colors.
// TextBuffer: то, что подсветке нужно от текстового виджета.
type TextBuffer interface {
	Text() string
	Search(pattern string, from, to Position, isRegex bool) (Position, bool)
	AddTag(name string, start, end Position)
	RemoveTag(name string, start, end Position)
	ConfigureTagColor(name, colorHex string) error
}

// Buffer boundaries usable with any TextBuffer.
var (
	StartOfText = Position{Line: 1, Col: 0}
	EndOfText   = Position{Line: math.MaxInt32, Col: 0}
)

// textIndex caches the joined buffer text and the byte offset of every
// line so positions and offsets convert without rescanning the buffer.
type textIndex struct {
	lines  []string
	text   string
	starts []int
	built  bool
}

func (ix *textIndex) refresh(lines []string) {
	if ix.built && sameLines(ix.lines, lines) {
		return
	}
	ix.lines = append(ix.lines[:0], lines...)
	ix.text = strings.Join(lines, "\n")
	ix.starts = ix.starts[:0]
	off := 0
	for _, l := range lines {
		ix.starts = append(ix.starts, off)
		off += len(l) + 1
	}
	ix.built = true
}

func sameLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// offset converts p to a byte offset, clamping it into the text.
func (ix *textIndex) offset(p Position) int {
	if len(ix.lines) == 0 || p.Line < 1 {
		return 0
	}
	if p.Line > len(ix.lines) {
		return len(ix.text)
	}
	line := ix.lines[p.Line-1]
	col := p.Col
	i := 0
	for col > 0 && i < len(line) {
		_, size := utf8.DecodeRuneInString(line[i:])
		i += size
		col--
	}
	return ix.starts[p.Line-1] + i
}

// span converts a byte range to a Span.
func (ix *textIndex) span(start, end int) Span {
	return Span{Start: ix.position(start), End: ix.position(end)}
}

// position converts a byte offset back to a line/rune position.
func (ix *textIndex) position(off int) Position {
	if len(ix.starts) == 0 {
		return StartOfText
	}
	n := sort.Search(len(ix.starts), func(i int) bool { return ix.starts[i] > off }) - 1
	if n < 0 {
		n = 0
	}
	return Position{Line: n + 1, Col: utf8.RuneCountInString(ix.text[ix.starts[n]:off])}
}

// Text returns the buffer content with a trailing newline, the way a text
// widget reports it.
func (e *Editor) Text() string {
	e.index.refresh(e.lines)
	return e.index.text + "\n"
}

// Search returns the start of the first match of pattern that lies in
// [from, to). With isRegex false the pattern is matched literally.
// Search ищет первое совпадение в диапазоне [from, to).
func (e *Editor) Search(pattern string, from, to Position, isRegex bool) (Position, bool) {
	span, ok := e.searchSpan(pattern, from, to, isRegex)
	return span.Start, ok
}

func (e *Editor) searchSpan(pattern string, from, to Position, isRegex bool) (Span, bool) {
	if pattern == "" {
		return Span{}, false
	}
	e.index.refresh(e.lines)
	lo, hi := e.index.offset(from), e.index.offset(to)
	if lo >= hi {
		return Span{}, false
	}

	if !isRegex {
		i := strings.Index(e.index.text[lo:hi], pattern)
		if i < 0 {
			return Span{}, false
		}
		return e.index.span(lo+i, lo+i+len(pattern)), true
	}
	re, err := e.compile(pattern)
	if err != nil {
		logWarn(catUI, "bad search pattern", "pattern", pattern, "err", err)
		return Span{}, false
	}
	// Matching always runs over the whole text so anchors and \b see
	// what lies before from.
	for _, loc := range nonEmptyMatches(re, e.index.text) {
		if loc[0] >= hi {
			break
		}
		if loc[0] >= lo && loc[1] <= hi {
			return e.index.span(loc[0], loc[1]), true
		}
	}
	return Span{}, false
}

// searchAll returns every non-overlapping match of pattern in buffer order.
// searchAll возвращает все совпадения по порядку.
func (e *Editor) searchAll(pattern string, isRegex bool) ([]Span, error) {
	if pattern == "" {
		return nil, nil
	}
	e.index.refresh(e.lines)
	text := e.index.text
	var spans []Span
	if !isRegex {
		for off := 0; ; {
			i := strings.Index(text[off:], pattern)
			if i < 0 {
				break
			}
			off += i
			spans = append(spans, e.index.span(off, off+len(pattern)))
			off += len(pattern)
		}
		return spans, nil
	}
	re, err := e.compile(pattern)
	if err != nil {
		return nil, err
	}
	for _, loc := range nonEmptyMatches(re, text) {
		spans = append(spans, e.index.span(loc[0], loc[1]))
	}
	return spans, nil
}

// nonEmptyMatches drops the empty matches patterns such as `x*` produce.
// Each entry holds the submatch indexes of one match.
func nonEmptyMatches(re *regexp.Regexp, s string) [][]int {
	var out [][]int
	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		if loc[0] < loc[1] {
			out = append(out, loc)
		}
	}
	return out
}

// compile caches patterns. ^ and $ anchor at every line.
func (e *Editor) compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := e.regexps[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile("(?m)" + pattern)
	if err != nil {
		return nil, err
	}
	if e.regexps == nil {
		e.regexps = make(map[string]*regexp.Regexp)
	}
	e.regexps[pattern] = re
	return re, nil
}

// AddTag tags [start, end) with name.
func (e *Editor) AddTag(name string, start, end Position) {
	e.tags.Add(name, start, end)
}

// RemoveTag clears name from [start, end).
func (e *Editor) RemoveTag(name string, start, end Position) {
	e.tags.Remove(name, start, end)
}

// ConfigureTagColor sets the foreground color of name.
func (e *Editor) ConfigureTagColor(name, colorHex string) error {
	c, err := hexToTcell(colorHex)
	if err != nil {
		return fmt.Errorf("tag %s: %w", name, err)
	}
	e.tags.SetForeground(name, c)
	return nil
}

// hexToTcell converts "#rrggbb" (or "#rgb") to a true-color tcell.Color.
func hexToTcell(hex string) (tcell.Color, error) {
	c, err := parseHex(hex)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b)), nil
}
