package main

import (
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
)

// pythonCommentPrefix is inserted by the comment toggle.
const pythonCommentPrefix = "# "

// clampCursor keeps the cursor inside the buffer.
func (e *Editor) clampCursor() {
	if len(e.lines) == 0 {
		e.lines = []string{""}
	}
	if e.cy < 0 {
		e.cy = 0
	}
	if e.cy >= len(e.lines) {
		e.cy = len(e.lines) - 1
	}
	if e.cx < 0 {
		e.cx = 0
	}
	if n := len([]rune(e.lines[e.cy])); e.cx > n {
		e.cx = n
	}
}

// insertTextAtCursor inserts given text at current cursor position, handling multi-line text.
// insertTextAtCursor вставляет текст (в том числе многострочный) в позицию курсора.
func (e *Editor) insertTextAtCursor(text string) {
	if text == "" {
		return
	}
	e.pushUndo()
	e.clampCursor()
	parts := strings.Split(text, "\n")
	lineRunes := []rune(e.lines[e.cy])
	left := string(lineRunes[:e.cx])
	right := string(lineRunes[e.cx:])

	if len(parts) == 1 {
		e.lines[e.cy] = left + parts[0] + right
		e.cx += len([]rune(parts[0]))
		e.ensureVisible()
		return
	}

	inserted := make([]string, 0, len(parts))
	inserted = append(inserted, left+parts[0])
	inserted = append(inserted, parts[1:len(parts)-1]...)
	last := parts[len(parts)-1]
	inserted = append(inserted, last+right)

	rest := append([]string(nil), e.lines[e.cy+1:]...)
	e.lines = append(append(e.lines[:e.cy], inserted...), rest...)
	e.cy += len(parts) - 1
	e.cx = len([]rune(last))
	e.ensureVisible()
}

// backspace deletes the character before the cursor.
// backspace удаляет символ перед курсором.
func (e *Editor) backspace() {
	e.clampCursor()
	if e.cx > 0 {
		e.pushUndo()
		lineRunes := []rune(e.lines[e.cy])
		e.lines[e.cy] = string(append(lineRunes[:e.cx-1], lineRunes[e.cx:]...))
		e.cx--
	} else if e.cy > 0 {
		e.pushUndo()
		prev := e.lines[e.cy-1]
		e.lines[e.cy-1] = prev + e.lines[e.cy]
		e.lines = append(e.lines[:e.cy], e.lines[e.cy+1:]...)
		e.cy--
		e.cx = len([]rune(prev))
	}
}

// deleteForward deletes the character under the cursor, joining the next
// line at the end of a line.
func (e *Editor) deleteForward() {
	e.clampCursor()
	lineRunes := []rune(e.lines[e.cy])
	if e.cx < len(lineRunes) {
		e.pushUndo()
		e.lines[e.cy] = string(append(lineRunes[:e.cx], lineRunes[e.cx+1:]...))
	} else if e.cy < len(e.lines)-1 {
		e.pushUndo()
		e.lines[e.cy] += e.lines[e.cy+1]
		e.lines = append(e.lines[:e.cy+1], e.lines[e.cy+2:]...)
	}
}

// newline splits the line at the cursor and carries its indentation over.
// newline вставляет новую строку с сохранением отступа.
func (e *Editor) newline() {
	e.pushUndo()
	e.clampCursor()
	lineRunes := []rune(e.lines[e.cy])
	left := string(lineRunes[:e.cx])
	right := string(lineRunes[e.cx:])
	indent := leadingIndent(left)
	if strings.HasSuffix(strings.TrimRight(left, " \t"), ":") {
		indent += "    "
	}
	e.lines[e.cy] = left
	e.lines = append(e.lines[:e.cy+1], append([]string{indent + right}, e.lines[e.cy+1:]...)...)
	e.cy++
	e.cx = len([]rune(indent))
}

func leadingIndent(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[:i]
}

func (e *Editor) startSelection() {
	if !e.selecting {
		e.selecting = true
		e.selectStartX = e.cx
		e.selectStartY = e.cy
	}
}

// startLineSelection начинает или расширяет выделение строк при Shift + стрелки.
func (e *Editor) startLineSelection() {
	if !e.selecting || !e.lineSelecting {
		e.selecting = true
		e.lineSelecting = true
		e.selectStartX = e.cx
		e.selectStartY = e.cy
	}
}

// endSelection завершает любое выделение.
func (e *Editor) endSelection() {
	e.selecting = false
	e.lineSelecting = false
}

// selectAll selects the whole buffer and puts the cursor at its end.
// selectAll выделяет весь текст.
func (e *Editor) selectAll() {
	e.selecting = true
	e.lineSelecting = false
	e.selectStartX, e.selectStartY = 0, 0
	e.cy = len(e.lines) - 1
	e.cx = len([]rune(e.lines[e.cy]))
	e.ensureVisible()
}

// getSelectionRange returns the selection as start line, start col, end
// line and end col with start before end. Line selections cover whole lines.
// getSelectionRange возвращает диапазон выделения.
func (e *Editor) getSelectionRange() (int, int, int, int) {
	if !e.selecting {
		return 0, 0, 0, 0
	}
	startLine, startCol := e.selectStartY, e.selectStartX
	endLine, endCol := e.cy, e.cx
	if startLine > endLine || (startLine == endLine && startCol > endCol) {
		startLine, endLine = endLine, startLine
		startCol, endCol = endCol, startCol
	}
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(e.lines) {
		endLine = len(e.lines) - 1
	}
	if e.lineSelecting {
		return startLine, 0, endLine, len([]rune(e.lines[endLine]))
	}
	if n := len([]rune(e.lines[startLine])); startCol > n {
		startCol = n
	}
	if n := len([]rune(e.lines[endLine])); endCol > n {
		endCol = n
	}
	return startLine, startCol, endLine, endCol
}

// inSelection reports whether rune col of line is selected.
func (e *Editor) inSelection(line, col int) bool {
	if !e.selecting {
		return false
	}
	sl, sc, el, ec := e.getSelectionRange()
	p := Position{Line: line, Col: col}
	return !p.Before(Position{Line: sl, Col: sc}) && p.Before(Position{Line: el, Col: ec})
}

// getSelectedText возвращает текст из текущего выделения.
func (e *Editor) getSelectedText() string {
	if !e.selecting {
		return ""
	}
	sl, sc, el, ec := e.getSelectionRange()
	if sl == el {
		return string([]rune(e.lines[sl])[sc:ec])
	}
	parts := []string{string([]rune(e.lines[sl])[sc:])}
	parts = append(parts, e.lines[sl+1:el]...)
	parts = append(parts, string([]rune(e.lines[el])[:ec]))
	return strings.Join(parts, "\n")
}

// deleteSelection удаляет выделенный текст.
func (e *Editor) deleteSelection() {
	if !e.selecting {
		return
	}
	sl, sc, el, ec := e.getSelectionRange()
	e.pushUndo()
	if e.lineSelecting {
		e.lines = append(e.lines[:sl], e.lines[el+1:]...)
		if len(e.lines) == 0 {
			e.lines = []string{""}
		}
		e.cy, e.cx = sl, 0
	} else {
		first := []rune(e.lines[sl])
		last := []rune(e.lines[el])
		merged := string(first[:sc]) + string(last[ec:])
		e.lines = append(e.lines[:sl], append([]string{merged}, e.lines[el+1:]...)...)
		e.cy, e.cx = sl, sc
	}
	e.endSelection()
	e.clampCursor()
}

// copySelection copies the selection, or the current line without one.
func (e *Editor) copySelection() {
	text := e.getSelectedText()
	what := strconv.Itoa(strings.Count(text, "\n")+1) + " line(s)"
	if !e.selecting {
		text = e.lines[e.cy]
		what = "current line"
	}
	if text == "" {
		return
	}
	e.clipboard = text
	if err := clipboard.WriteAll(text); err != nil {
		e.showError("Copy error clipboard: " + err.Error())
		return
	}
	e.statusMessage("Copied " + what + " to clipboard")
}

// cutSelection cuts the selection, or the current line without one.
func (e *Editor) cutSelection() {
	if !e.selecting {
		e.cutLine()
		return
	}
	text := e.getSelectedText()
	if text == "" {
		return
	}
	e.clipboard = text
	if err := clipboard.WriteAll(text); err != nil {
		e.showError("Copying error of clipboard: " + err.Error())
		return
	}
	e.deleteSelection()
	e.statusMessage("Cut out: " + strconv.Itoa(strings.Count(text, "\n")+1) + " lines")
}

// cutLine cuts the current line and copies it to the clipboard.
// cutLine вырезает текущую строку и копирует её в буфер обмена.
func (e *Editor) cutLine() {
	e.clampCursor()
	e.pushUndo()
	e.clipboard = e.lines[e.cy]
	if err := clipboard.WriteAll(e.clipboard); err != nil {
		e.showError("Copy error clipboard: " + err.Error())
	}
	e.lines = append(e.lines[:e.cy], e.lines[e.cy+1:]...)
	e.clampCursor()
	e.ensureVisible()
}

// pasteFromClipboard reads text from the system clipboard and inserts it at the cursor position.
// pasteFromClipboard читает текст из системного буфера обмена и вставляет его в позицию курсора.
func (e *Editor) pasteFromClipboard() {
	text, err := clipboard.ReadAll()
	if err != nil {
		if e.clipboard == "" {
			e.showError("Insert error: " + err.Error())
			return
		}
		text = e.clipboard
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if e.selecting {
		e.deleteSelection()
	}
	e.insertTextAtCursor(text)
}

// selectedLines returns the line range a block command works on: the
// selection if any, otherwise the cursor line.
func (e *Editor) selectedLines() (int, int) {
	if !e.selecting {
		return e.cy, e.cy
	}
	sl, _, el, _ := e.getSelectionRange()
	return sl, el
}

// indentSelection adds four spaces in front of the selected lines.
// indentSelection добавляет отступ в начало выделенных строк.
func (e *Editor) indentSelection() {
	lo, hi := e.selectedLines()
	e.pushUndo()
	for i := lo; i <= hi; i++ {
		e.lines[i] = "    " + e.lines[i]
	}
	if !e.selecting {
		e.cx += 4
	}
}

// unindentSelection removes up to four spaces or one tab from the selected lines.
// unindentSelection удаляет отступ из начала выделенных строк.
func (e *Editor) unindentSelection() {
	lo, hi := e.selectedLines()
	e.pushUndo()
	for i := lo; i <= hi; i++ {
		line := e.lines[i]
		if strings.HasPrefix(line, "\t") {
			e.lines[i] = line[1:]
			continue
		}
		n := 0
		for n < len(line) && n < 4 && line[n] == ' ' {
			n++
		}
		e.lines[i] = line[n:]
	}
	e.clampCursor()
}

// toggleComment comments the selected lines out with "# ", or uncomments
// them when every one of them is already commented.
// toggleComment комментирует или раскомментирует строки.
func (e *Editor) toggleComment() {
	lo, hi := e.selectedLines()
	prefix := pythonCommentPrefix
	allCommented := true
	for i := lo; i <= hi; i++ {
		rest := strings.TrimLeft(e.lines[i], " \t")
		if rest != "" && !strings.HasPrefix(rest, strings.TrimSpace(prefix)) {
			allCommented = false
			break
		}
	}
	e.pushUndo()
	for i := lo; i <= hi; i++ {
		line := e.lines[i]
		lead := leadingIndent(line)
		body := line[len(lead):]
		switch {
		case allCommented && strings.HasPrefix(body, prefix):
			e.lines[i] = lead + body[len(prefix):]
		case allCommented && strings.HasPrefix(body, "#"):
			e.lines[i] = lead + body[1:]
		case !allCommented && body != "":
			e.lines[i] = lead + prefix + body
		}
	}
	e.clampCursor()
}
