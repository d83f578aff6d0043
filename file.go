package main

import (
	"fmt"
	"os"
	"strings"
)

// rehighlight reruns the syntax pass over the whole buffer and remembers
// which text the tags belong to.
// rehighlight заново подсвечивает весь буфер.
func (e *Editor) rehighlight() {
	if e.syntax == nil {
		return
	}
	res, err := e.syntax.Highlight(e)
	if err != nil {
		logError(catSyntax, "highlight failed", err, "file", e.filename)
		e.showError("Highlight error: " + err.Error())
		return
	}
	e.highlighted = append(e.highlighted[:0], e.lines...)
	if res.TruncatedAtError {
		logDebug(catSyntax, "partial highlight", "file", e.filename, "err", res.TokenErr)
	}
}

// lineTagged reports whether tags still describe line i (0-based), i.e. the
// line is unchanged since the last highlight pass.
func (e *Editor) lineTagged(i int) bool {
	return i < len(e.highlighted) && i < len(e.lines) && e.highlighted[i] == e.lines[i]
}

// openFile replaces the buffer with the content of path.
// openFile открывает файл в редакторе.
func (e *Editor) openFile(path string) {
	lines, err := readLines(path)
	if err != nil {
		logError(catUI, "open failed", err, "path", path)
		e.showError("Unable to open the file: " + err.Error())
		return
	}
	e.filename = path
	e.lines = lines
	e.cx, e.cy = 0, 0
	e.offsetY = 0
	e.dirty = false
	e.undoStack = nil
	e.redoStack = nil
	e.endSelection()
	e.ensureVisible()
	e.rehighlight()
	logInfo(catUI, "file opened", "path", path, "lines", len(lines))
}

// newFile clears the buffer and forgets the file name.
func (e *Editor) newFile() {
	e.filename = ""
	e.lines = []string{""}
	e.cx, e.cy = 0, 0
	e.offsetY = 0
	e.dirty = false
	e.undoStack = nil
	e.redoStack = nil
	e.endSelection()
	e.rehighlight()
}

// save writes the buffer to its file, asking for a name when it has none.
// save сохраняет файл; без имени запрашивает путь.
func (e *Editor) save() {
	if e.filename == "" {
		e.saveAs(nil)
		return
	}
	if err := e.persist(); err == nil {
		e.statusMessage("Saved " + e.filename)
	}
}

// saveAs asks for a path, writes the buffer there and then calls next.
func (e *Editor) saveAs(next func()) {
	e.promptShowWithInitial("Save as (path)", e.filename, func(input string) {
		path := strings.TrimSpace(input)
		if path == "" {
			return
		}
		prev := e.filename
		e.filename = path
		if err := e.persist(); err != nil {
			e.filename = prev
			return
		}
		e.statusMessage("Saved " + path)
		if next != nil {
			next()
		}
	})
}

// persist writes the content to the file and rehighlights it.
// persist записывает содержимое в файл.
func (e *Editor) persist() error {
	content := strings.Join(e.lines, "\n")
	if err := os.WriteFile(e.filename, []byte(content), 0644); err != nil {
		logError(catUI, "save failed", err, "path", e.filename)
		e.showError("Unable to save the file: " + err.Error())
		return err
	}
	e.dirty = false
	e.rehighlight()
	return nil
}

// setSyntaxColor handles "category #hex" from the color prompt.
// setSyntaxColor меняет цвет категории подсветки.
func (e *Editor) setSyntaxColor(input string) {
	scheme := e.syntax.Scheme()
	fields := strings.Fields(input)
	if len(fields) != 2 {
		e.showError("Expected: <category> <#hex>, categories: " + strings.Join(scheme.Categories(), ", "))
		return
	}
	if err := scheme.Set(fields[0], fields[1]); err != nil {
		e.showError(err.Error())
		return
	}
	color, _ := scheme.Color(fields[0])
	logInfo(catConfig, "color changed", "category", fields[0], "color", color)
	e.rehighlight()
	e.statusMessage(fmt.Sprintf("%s is now %s (^B to keep it)", fields[0], color))
}

// saveColors writes the color scheme back to its file.
func (e *Editor) saveColors() {
	scheme := e.syntax.Scheme()
	if err := scheme.Save(); err != nil {
		logError(catConfig, "save colors failed", err, "path", scheme.Path())
		e.showError("Unable to save colors: " + err.Error())
		return
	}
	logInfo(catConfig, "color scheme saved", "path", scheme.Path())
	e.statusMessage("Colors saved to " + scheme.Path())
}

// requestQuit quits, asking first when the buffer has unsaved changes.
// requestQuit завершает работу, предлагая сохранить изменения.
func (e *Editor) requestQuit() {
	if !e.dirty {
		e.quit = true
		return
	}
	e.promptShow("Save changes before quit? (y/n/c)", func(input string) {
		switch strings.ToLower(strings.TrimSpace(input)) {
		case "y", "yes", "д", "да":
			if e.filename == "" {
				e.saveAs(func() { e.quit = true })
				return
			}
			if err := e.persist(); err == nil {
				e.quit = true
			}
		case "n", "no", "н", "нет":
			e.quit = true
		case "c", "cancel", "о", "отмена":
			e.statusMessage("Exit cancelled")
		default:
			e.requestQuit()
		}
	})
}
