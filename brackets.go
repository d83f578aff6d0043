package main

import (
	"github.com/gdamore/tcell/v2"
)

// BracketPair представляет пару совпадающих скобок и их позиций.
// BracketPair represents a pair of matching brackets and their positions
// (0-based line, rune column).
type BracketPair struct {
	OpenLine  int
	OpenCol   int
	CloseLine int
	CloseCol  int
}

// BracketMatcher отвечает за поиск соответствующих скобок.
// BracketMatcher finds matching brackets, ignoring the ones the last
// highlight pass put inside strings or comments.
type BracketMatcher struct {
	editor *Editor
}

var (
	openBrackets  = map[rune]rune{'(': ')', '[': ']', '{': '}'}
	closeBrackets = map[rune]rune{')': '(', ']': '[', '}': '{'}
)

// NewBracketMatcher creates a new bracket matcher
func NewBracketMatcher(editor *Editor) *BracketMatcher {
	return &BracketMatcher{
		editor: editor,
	}
}

// inLiteral reports whether the rune at (line, col) is part of a string
// or a comment according to the current tags.
func (bm *BracketMatcher) inLiteral(line, col int) bool {
	e := bm.editor
	if e.tags == nil || !e.lineTagged(line) {
		return false
	}
	p := Position{Line: line + 1, Col: col}
	return e.tags.Has(CategoryString, p) || e.tags.Has(CategoryComment, p)
}

// findMatchingBracket finds the matching bracket for the character at the given position
func (bm *BracketMatcher) findMatchingBracket(lineIdx, colIdx int) *BracketPair {
	lines := bm.editor.lines
	if lineIdx < 0 || lineIdx >= len(lines) {
		return nil
	}
	runes := []rune(lines[lineIdx])
	if colIdx < 0 || colIdx >= len(runes) {
		return nil
	}
	char := runes[colIdx]
	if _, ok := openBrackets[char]; !ok {
		if _, ok := closeBrackets[char]; !ok {
			return nil
		}
	}
	if bm.inLiteral(lineIdx, colIdx) {
		return nil
	}

	if closing, isOpen := openBrackets[char]; isOpen {
		line, col, ok := bm.scan(lineIdx, colIdx, char, closing, 1)
		if !ok {
			return nil
		}
		return &BracketPair{OpenLine: lineIdx, OpenCol: colIdx, CloseLine: line, CloseCol: col}
	}
	opening := closeBrackets[char]
	line, col, ok := bm.scan(lineIdx, colIdx, char, opening, -1)
	if !ok {
		return nil
	}
	return &BracketPair{OpenLine: line, OpenCol: col, CloseLine: lineIdx, CloseCol: colIdx}
}

// scan walks from (startLine, startCol) in direction step (+1 forward,
// -1 backward) until the bracket that balances self is found.
// scan ищет парную скобку в заданном направлении.
func (bm *BracketMatcher) scan(startLine, startCol int, self, want rune, step int) (int, int, bool) {
	lines := bm.editor.lines
	nesting := 1
	lineIdx := startLine
	runes := []rune(lines[lineIdx])
	colIdx := startCol + step
	for {
		for colIdx >= 0 && colIdx < len(runes) {
			char := runes[colIdx]
			if (char == self || char == want) && !bm.inLiteral(lineIdx, colIdx) {
				if char == self {
					nesting++
				} else {
					nesting--
					if nesting == 0 {
						return lineIdx, colIdx, true
					}
				}
			}
			colIdx += step
		}
		lineIdx += step
		if lineIdx < 0 || lineIdx >= len(lines) {
			return 0, 0, false
		}
		runes = []rune(lines[lineIdx])
		if step > 0 {
			colIdx = 0
		} else {
			colIdx = len(runes) - 1
		}
	}
}

// getBracketAtCursor returns the bracket pair at the current cursor position
// or right before it.
func (bm *BracketMatcher) getBracketAtCursor() *BracketPair {
	e := bm.editor
	if pair := bm.findMatchingBracket(e.cy, e.cx); pair != nil {
		return pair
	}
	if e.cx > 0 {
		return bm.findMatchingBracket(e.cy, e.cx-1)
	}
	return nil
}

// getBracketHighlightStyle returns the style for highlighting matched brackets
func (bm *BracketMatcher) getBracketHighlightStyle() tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorBlue)
}
