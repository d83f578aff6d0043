package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// tagFound marks search hits.
const tagFound = "found"

var foundBackground = tcell.NewRGBColor(0xe9, 0xf0, 0x2b)

// replaceSeparator splits "old -> new" in the find prompt.
const replaceSeparator = " -> "

// findAll tags every match of query with the found tag and returns the
// matched spans in buffer order. The regex toggle decides how query is read.
// findAll помечает все совпадения и возвращает их диапазоны.
func (e *Editor) findAll(query string) []Span {
	e.tags.Remove(tagFound, StartOfText, EndOfText)
	e.searched = nil
	if query == "" {
		return nil
	}
	spans, err := e.searchAll(query, e.regexSearch)
	if err != nil {
		logWarn(catUI, "bad search pattern", "pattern", query, "err", err)
		return nil
	}
	for _, s := range spans {
		e.tags.Add(tagFound, s.Start, s.End)
	}
	e.searched = append(e.searched[:0], e.lines...)
	logDebug(catUI, "find", "query", query, "regex", e.regexSearch, "matches", len(spans))
	return spans
}

// clearFound drops the search hits.
func (e *Editor) clearFound() {
	e.tags.Remove(tagFound, StartOfText, EndOfText)
	e.searched = nil
}

// foundVisible reports whether search hits still describe line i.
func (e *Editor) foundVisible(i int) bool {
	return i < len(e.searched) && i < len(e.lines) && e.searched[i] == e.lines[i]
}

// replaceAll replaces every match of query with repl and returns the
// number of replacements. In regex mode repl may use $1-style groups and
// empty matches are left alone, the same matches findAll marks.
// replaceAll заменяет все совпадения; результат можно отменить.
func (e *Editor) replaceAll(query, repl string) (int, error) {
	if query == "" {
		return 0, nil
	}
	text := strings.Join(e.lines, "\n")
	var (
		out string
		n   int
	)
	if e.regexSearch {
		re, err := e.compile(query)
		if err != nil {
			return 0, fmt.Errorf("bad pattern %q: %w", query, err)
		}
		var b strings.Builder
		last := 0
		for _, loc := range nonEmptyMatches(re, text) {
			b.WriteString(text[last:loc[0]])
			b.Write(re.ExpandString(nil, repl, text, loc))
			last = loc[1]
			n++
		}
		b.WriteString(text[last:])
		out = b.String()
	} else {
		n = strings.Count(text, query)
		out = strings.ReplaceAll(text, query, repl)
	}
	if n == 0 || out == text {
		return n, nil
	}
	e.pushUndo()
	e.lines = strings.Split(out, "\n")
	e.clearFound()
	e.endSelection()
	e.ensureVisible()
	return n, nil
}

// findAndJump highlights all matches of query and moves the cursor to the
// first one after it, wrapping around to the top.
// findAndJump находит совпадения и переходит к следующему.
func (e *Editor) findAndJump(query string) {
	spans := e.findAll(query)
	if len(spans) == 0 {
		e.statusMessage("Not found: " + query)
		return
	}
	cur := Position{Line: e.cy + 1, Col: e.cx}
	next := spans[0]
	for _, s := range spans {
		if cur.Before(s.Start) {
			next = s
			break
		}
	}
	e.cy = next.Start.Line - 1
	e.cx = next.Start.Col
	e.ensureVisible()
	e.statusMessage(fmt.Sprintf("%d match(es) for %q", len(spans), query))
}

// handleFind runs the find prompt input: "text" finds, "old -> new"
// replaces everywhere.
func (e *Editor) handleFind(input string) {
	if strings.TrimSpace(input) == "" {
		e.clearFound()
		return
	}
	e.lastSearch = input
	if i := strings.Index(input, replaceSeparator); i > 0 {
		old, repl := input[:i], input[i+len(replaceSeparator):]
		n, err := e.replaceAll(old, repl)
		if err != nil {
			e.showError(err.Error())
			return
		}
		logInfo(catUI, "replace all", "old", old, "new", repl, "count", n)
		e.statusMessage(fmt.Sprintf("Replaced %d occurrence(s) of %q with %q", n, old, repl))
		return
	}
	e.findAndJump(input)
}

// toggleRegex flips between literal and regex search and reruns the last
// search in the new mode.
func (e *Editor) toggleRegex() {
	e.regexSearch = !e.regexSearch
	state := "Regex Off"
	if e.regexSearch {
		state = "Regex On"
	}
	if e.lastSearch != "" && !strings.Contains(e.lastSearch, replaceSeparator) {
		n := len(e.findAll(e.lastSearch))
		state = fmt.Sprintf("%s: %d match(es) for %q", state, n, e.lastSearch)
	}
	e.statusMessage(state)
}
