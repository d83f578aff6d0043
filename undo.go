package main

// maxUndo bounds the undo history.
const maxUndo = 500

// EditorState представляет состояние редактора для undo/redo.
type EditorState struct {
	Lines []string
	Cx    int
	Cy    int
}

func (e *Editor) snapshot() EditorState {
	state := EditorState{
		Lines: make([]string, len(e.lines)),
		Cx:    e.cx,
		Cy:    e.cy,
	}
	copy(state.Lines, e.lines)
	return state
}

func (e *Editor) restore(state EditorState) {
	e.lines = state.Lines
	e.cx = state.Cx
	e.cy = state.Cy
	e.dirty = true
	e.endSelection()
	e.ensureVisible()
}

// insertRune inserts a rune at the current cursor position.
// insertRune вставляет символ в текущую позицию курсора.
func (e *Editor) insertRune(r rune) {
	e.pushUndo()
	lineRunes := []rune(e.lines[e.cy])
	if e.cx < 0 {
		e.cx = 0
	}
	if e.cx > len(lineRunes) {
		e.cx = len(lineRunes)
	}
	lineRunes = append(lineRunes[:e.cx], append([]rune{r}, lineRunes[e.cx:]...)...)
	e.lines[e.cy] = string(lineRunes)
	e.cx++
}

// pushUndo pushes the current state onto the undo stack and marks the
// buffer dirty; every edit calls it first.
// pushUndo помещает текущее состояние в стек отмены.
func (e *Editor) pushUndo() {
	e.undoStack = append(e.undoStack, e.snapshot())
	if len(e.undoStack) > maxUndo {
		e.undoStack = e.undoStack[len(e.undoStack)-maxUndo:]
	}
	e.redoStack = nil
	e.dirty = true
}

// undo reverts the last change.
// undo отменяет последнее изменение.
func (e *Editor) undo() {
	if len(e.undoStack) == 0 {
		e.statusMessage("Nothing to undo")
		return
	}
	e.redoStack = append(e.redoStack, e.snapshot())
	last := e.undoStack[len(e.undoStack)-1]
	e.undoStack = e.undoStack[:len(e.undoStack)-1]
	e.restore(last)
}

// redo reapplies the last undone change.
// redo повторно применяет последнее отмененное изменение.
func (e *Editor) redo() {
	if len(e.redoStack) == 0 {
		e.statusMessage("Nothing to redo")
		return
	}
	e.undoStack = append(e.undoStack, e.snapshot())
	next := e.redoStack[len(e.redoStack)-1]
	e.redoStack = e.redoStack[:len(e.redoStack)-1]
	e.restore(next)
}
