package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Screen styles.
// Стили экрана.
var (
	styleDefault   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	styleSelection = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightGray)
	stylePrompt    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.NewRGBColor(211, 211, 211))
	styleKey       = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	styleStatus    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue)
	styleError     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed)
	stylePanel     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.NewRGBColor(30, 30, 30))
)

const (
	tabWidth   = 4
	maxWidth   = 115
	statusTTL  = 3 * time.Second
	errorTTL   = 5 * time.Second
	panelTitle = " (Esc to close, arrows to scroll)"
)

// DisplayRow is one screen row: a wrapped piece [start, end) of a buffer line.
// DisplayRow: одна экранная строка, часть строки буфера после переноса.
type DisplayRow struct {
	lineIndex int
	segIndex  int
	start     int
	end       int
}

// Prompt represents a prompt for user input.
// Prompt представляет запрос пользовательского ввода.
type Prompt struct {
	Label    string
	Value    string
	Callback func(string)
}

// MultiLinePrompt is a read-only text panel (help, run output).
// MultiLinePrompt: панель с текстом только для чтения.
type MultiLinePrompt struct {
	Label  string
	Value  string
	Scroll int
}

// refreshSize updates the editor's dimensions.
// refreshSize обновляет размеры редактора.
func (e *Editor) refreshSize() {
	w, h := e.screen.Size()
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	if w > maxWidth {
		w = maxWidth
	}
	e.contentWidth = w
	e.contentHeight = h
	e.ensureVisible()
}

// cellWidth is the number of screen cells r takes when drawn at column x.
func cellWidth(r rune, x int) int {
	if r == '\t' {
		return tabWidth - x%tabWidth
	}
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 1
}

// wrapLine splits a line into rows that fit the content width and returns
// the rune index each row starts at.
// wrapLine возвращает начала экранных строк для переноса.
func (e *Editor) wrapLine(runes []rune) []int {
	starts := []int{0}
	x := 0
	for i, r := range runes {
		w := cellWidth(r, x)
		if x+w > e.contentWidth && i > starts[len(starts)-1] {
			starts = append(starts, i)
			x = 0
			w = cellWidth(r, 0)
		}
		x += w
	}
	return starts
}

// buildDisplayBuffer builds the display buffer from the editor's lines.
// buildDisplayBuffer строит буфер отображения из строк редактора.
func (e *Editor) buildDisplayBuffer() []DisplayRow {
	var rows []DisplayRow
	for li, line := range e.lines {
		runes := []rune(line)
		starts := e.wrapLine(runes)
		for si, st := range starts {
			end := len(runes)
			if si+1 < len(starts) {
				end = starts[si+1]
			}
			rows = append(rows, DisplayRow{lineIndex: li, segIndex: si, start: st, end: end})
		}
	}
	return rows
}

// displayPosition maps a buffer line and rune column to a display row and
// a cell column.
func (e *Editor) displayPosition(line, col int) (int, int) {
	row := 0
	for i := 0; i < line && i < len(e.lines); i++ {
		row += len(e.wrapLine([]rune(e.lines[i])))
	}
	runes := []rune(e.lines[line])
	starts := e.wrapLine(runes)
	seg := len(starts) - 1
	for seg > 0 && col < starts[seg] {
		seg--
	}
	x := 0
	for i := starts[seg]; i < col && i < len(runes); i++ {
		x += cellWidth(runes[i], x)
	}
	return row + seg, x
}

// cursorDisplayPosition calculates the display position of the cursor.
// cursorDisplayPosition вычисляет позицию отображения курсора.
func (e *Editor) cursorDisplayPosition() (int, int) {
	e.clampCursor()
	return e.displayPosition(e.cy, e.cx)
}

// visibleRows is the number of text rows left after the status, prompt
// and key lines.
func (e *Editor) visibleRows() int {
	if n := e.contentHeight - 4; n > 0 {
		return n
	}
	return 1
}

// ensureVisible ensures the cursor is visible on the screen.
// ensureVisible обеспечивает видимость курсора на экране.
func (e *Editor) ensureVisible() {
	row, _ := e.cursorDisplayPosition()
	if row < e.offsetY {
		e.offsetY = row
	} else if row >= e.offsetY+e.visibleRows() {
		e.offsetY = row - e.visibleRows() + 1
	}
}

// statusBar generates the top and bottom status bar text.
// statusBar генерирует текст верхней и нижней строки состояния.
func (e *Editor) statusBar() (string, string, string) {
	name := e.filename
	if name == "" {
		name = "[new file]"
	}
	if e.dirty {
		name += " [+]"
	}
	mode := "literal"
	if e.regexSearch {
		mode = "regex"
	}
	left := "PYEDIT " + Version
	center := fmt.Sprintf("%s  Ln %d/%d, Col %d  [find: %s]", name, e.cy+1, len(e.lines), e.cx+1, mode)
	pad := (e.contentWidth - runewidth.StringWidth(left) - runewidth.StringWidth(center)) / 2
	if pad < 1 {
		pad = 1
	}
	top := left + strings.Repeat(" ", pad) + center

	bottom2 := "^O Open   ^S Save   ^W Save as ^N New     ^R Run      ^Q Quit     ^F Find   ^T Regex  ^G Go to line ^P Paste bin"
	bottom1 := "^J HELP   ^C Copy   ^V Paste   ^X Cut     ^Z Undo     ^E Redo     ^A All    ^D None   ^K Comment  ^L Color ^B Keep"
	return top, bottom1, bottom2
}

// drawText draws s from column x on row y and returns the column after it.
func (e *Editor) drawText(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		w := cellWidth(r, x)
		if x+w > e.contentWidth {
			break
		}
		if r == '\t' {
			r = ' '
		}
		for k := 0; k < w; k++ {
			if k == 0 {
				e.screen.SetContent(x, y, r, nil, style)
			} else if r == ' ' {
				e.screen.SetContent(x+k, y, ' ', nil, style)
			}
		}
		x += w
	}
	return x
}

func (e *Editor) fillRow(x, y int, style tcell.Style) {
	for ; x < e.contentWidth; x++ {
		e.screen.SetContent(x, y, ' ', nil, style)
	}
}

// drawKeyLine draws a help line; the key after each '^' is shown inverted.
func (e *Editor) drawKeyLine(y int, s string) {
	runes := []rune(s)
	x := 0
	for i := 0; i < len(runes) && x < e.contentWidth; i++ {
		style := styleDefault
		if i > 0 && runes[i-1] == '^' {
			style = styleKey
		}
		e.screen.SetContent(x, y, runes[i], nil, style)
		x++
	}
	e.fillRow(x, y, styleDefault)
}

// lineStyles returns per-rune styles of line i from the tags that still
// describe it.
func (e *Editor) lineStyles(i int, n int) []tcell.Style {
	return e.tags.LineStyles(i+1, n, styleDefault, func(name string) bool {
		if name == tagFound {
			return e.foundVisible(i)
		}
		return e.lineTagged(i)
	})
}

// render renders the editor to the screen.
// render отображает редактор на экране.
func (e *Editor) render() {
	e.screen.Clear()
	top, bottom1, bottom2 := e.statusBar()
	e.fillRow(e.drawText(0, 0, top, styleDefault), 0, styleDefault)

	rows := e.buildDisplayBuffer()
	contentRows := e.contentHeight - 3
	if contentRows < 0 {
		contentRows = 0
	}
	runesOf := make(map[int][]rune)
	stylesOf := make(map[int][]tcell.Style)
	for i := 0; i < contentRows; i++ {
		y := i + 1
		di := e.offsetY + i
		if di >= len(rows) {
			e.fillRow(0, y, styleDefault)
			continue
		}
		row := rows[di]
		runes, ok := runesOf[row.lineIndex]
		if !ok {
			runes = []rune(e.lines[row.lineIndex])
			runesOf[row.lineIndex] = runes
			stylesOf[row.lineIndex] = e.lineStyles(row.lineIndex, len(runes))
		}
		styles := stylesOf[row.lineIndex]
		x := 0
		for c := row.start; c < row.end; c++ {
			r := runes[c]
			style := styles[c]
			if e.inSelection(row.lineIndex, c) {
				style = styleSelection
			}
			w := cellWidth(r, x)
			if x+w > e.contentWidth {
				break
			}
			if r == '\t' {
				for k := 0; k < w; k++ {
					e.screen.SetContent(x+k, y, ' ', nil, style)
				}
			} else {
				e.screen.SetContent(x, y, r, nil, style)
			}
			x += w
		}
		e.fillRow(x, y, styleDefault)
	}

	e.renderBrackets(contentRows)

	if e.multiLinePrompt != nil {
		e.renderPanel(contentRows)
		e.screen.HideCursor()
	} else {
		row, x := e.cursorDisplayPosition()
		if y := row - e.offsetY + 1; y >= 1 && y <= contentRows {
			e.screen.ShowCursor(x, y)
		} else {
			e.screen.HideCursor()
		}
	}

	if e.prompt != nil && e.contentHeight >= 3 {
		y := e.contentHeight - 3
		x := e.drawText(0, y, e.prompt.Label+": "+e.prompt.Value, stylePrompt)
		e.fillRow(x, y, styleDefault)
		e.screen.ShowCursor(x, y)
	}

	e.drawKeyLine(e.contentHeight-2, bottom2)
	e.drawKeyLine(e.contentHeight-1, bottom1)
	switch {
	case e.errorMessage != "" && time.Since(e.errorShowTime) < errorTTL:
		e.fillRow(e.drawText(0, e.contentHeight-1, " "+e.errorMessage, styleError), e.contentHeight-1, styleError)
	case e.statusText != "" && time.Since(e.statusShowTime) < statusTTL:
		e.fillRow(e.drawText(0, e.contentHeight-1, " "+e.statusText, styleStatus), e.contentHeight-1, styleStatus)
	}
	e.screen.Show()
}

// renderBrackets highlights the bracket pair at the cursor.
func (e *Editor) renderBrackets(contentRows int) {
	if e.bracketMatcher == nil {
		return
	}
	pair := e.bracketMatcher.getBracketAtCursor()
	if pair == nil {
		return
	}
	style := e.bracketMatcher.getBracketHighlightStyle()
	for _, p := range [][2]int{{pair.OpenLine, pair.OpenCol}, {pair.CloseLine, pair.CloseCol}} {
		row, x := e.displayPosition(p[0], p[1])
		y := row - e.offsetY + 1
		if y < 1 || y > contentRows || x >= e.contentWidth {
			continue
		}
		e.screen.SetContent(x, y, []rune(e.lines[p[0]])[p[1]], nil, style)
	}
}

// renderPanel draws the text panel over the content area.
func (e *Editor) renderPanel(contentRows int) {
	p := e.multiLinePrompt
	width := e.contentWidth - 2
	if width < 1 {
		width = 1
	}
	body := wrapText(strings.TrimRight(p.Value, "\n"), width)
	maxScroll := len(body) - (contentRows - 1)
	if maxScroll < 0 {
		maxScroll = 0
	}
	if p.Scroll > maxScroll {
		p.Scroll = maxScroll
	}
	if p.Scroll < 0 {
		p.Scroll = 0
	}
	e.fillRow(e.drawText(0, 1, p.Label+panelTitle, styleKey), 1, styleKey)
	for i := 1; i < contentRows; i++ {
		y := i + 1
		e.fillRow(0, y, stylePanel)
		if li := p.Scroll + i - 1; li < len(body) {
			e.drawText(1, y, body[li], stylePanel)
		}
	}
}

// wrapText wraps text to fit a given width.
// wrapText переносит текст в соответствии с заданной шириной.
func wrapText(text string, width int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		runes := []rune(line)
		start, w := 0, 0
		for i, r := range runes {
			rw := cellWidth(r, w)
			if w+rw > width && i > start {
				out = append(out, string(runes[start:i]))
				start, w = i, 0
				rw = cellWidth(r, 0)
			}
			w += rw
		}
		out = append(out, string(runes[start:]))
	}
	return out
}

// statusMessage displays a message on the status bar.
// statusMessage отображает сообщение в строке состояния.
func (e *Editor) statusMessage(msg string) {
	e.statusText = msg
	e.statusShowTime = time.Now()
	e.wakeAfter(statusTTL)
}

// showError displays an error message in the status bar with red background.
// showError отображает сообщение об ошибке в строке состояния с красным фоном.
func (e *Editor) showError(msg string) {
	e.errorMessage = msg
	e.errorShowTime = time.Now()
	e.wakeAfter(errorTTL)
}

// wakeAfter makes the event loop redraw once d has passed so an expired
// message disappears. Only the screen is touched off the loop.
func (e *Editor) wakeAfter(d time.Duration) {
	s := e.screen
	if s == nil {
		return
	}
	time.AfterFunc(d, func() {
		_ = s.PostEvent(tcell.NewEventInterrupt(nil))
	})
}

// showPanel opens a read-only text panel.
func (e *Editor) showPanel(label, text string) {
	e.multiLinePrompt = &MultiLinePrompt{Label: label, Value: text}
	e.prompt = nil
}

// promptShow shows a prompt to the user.
// promptShow показывает пользователю запрос.
func (e *Editor) promptShow(label string, cb func(string)) {
	e.promptShowWithInitial(label, "", cb)
}

func (e *Editor) promptShowWithInitial(label string, prefill string, cb func(string)) {
	e.prompt = &Prompt{
		Label:    label,
		Value:    prefill,
		Callback: cb,
	}
	e.multiLinePrompt = nil
}

// handlePromptInput handles input for the prompt.
// handlePromptInput обрабатывает ввод для запроса.
func (e *Editor) handlePromptInput(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEsc:
		e.prompt = nil
	case tcell.KeyEnter:
		val := e.prompt.Value
		cb := e.prompt.Callback
		e.prompt = nil
		if cb != nil {
			cb(val)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if runes := []rune(e.prompt.Value); len(runes) > 0 {
			e.prompt.Value = string(runes[:len(runes)-1])
		}
	case tcell.KeyCtrlU:
		e.prompt.Value = ""
	case tcell.KeyCtrlV:
		text, err := clipboard.ReadAll()
		if err != nil {
			e.showError("Paste error: " + err.Error())
			return
		}
		if i := strings.IndexAny(text, "\r\n"); i >= 0 {
			text = text[:i]
		}
		e.prompt.Value += text
	default:
		if r := ev.Rune(); r != 0 && ev.Key() == tcell.KeyRune {
			e.prompt.Value += string(r)
		}
	}
}

// handlePanelInput scrolls or closes the text panel.
func (e *Editor) handlePanelInput(ev *tcell.EventKey) {
	p := e.multiLinePrompt
	switch ev.Key() {
	case tcell.KeyEsc, tcell.KeyEnter, tcell.KeyCtrlJ:
		e.multiLinePrompt = nil
	case tcell.KeyUp:
		p.Scroll--
	case tcell.KeyDown:
		p.Scroll++
	case tcell.KeyPgUp:
		p.Scroll -= e.visibleRows()
	case tcell.KeyPgDn:
		p.Scroll += e.visibleRows()
	case tcell.KeyCtrlC:
		if err := clipboard.WriteAll(p.Value); err != nil {
			e.showError("Copy error clipboard: " + err.Error())
		}
	}
}

// Run starts the editor's main loop.
// Run запускает основной цикл редактора.
func (e *Editor) Run() error {
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()
	e.screen = s
	e.refreshSize()
	logInfo(catUI, "editor started", "file", e.filename, "lines", len(e.lines))
	for !e.quit {
		e.render()
		switch tev := s.PollEvent().(type) {
		case *tcell.EventKey:
			e.handleKey(tev)
		case *tcell.EventResize:
			e.refreshSize()
			s.Sync()
		}
	}
	return nil
}

// moveCursor moves the cursor, growing or dropping the selection
// depending on shift.
func (e *Editor) moveCursor(shift bool, move func()) {
	if shift {
		e.startSelection()
	} else if e.selecting {
		e.endSelection()
	}
	move()
}

// moveLines moves the cursor vertically; with shift it selects whole lines.
func (e *Editor) moveLines(shift bool, move func()) {
	if shift {
		e.startLineSelection()
	} else if e.selecting {
		e.endSelection()
	}
	move()
}

// handleKey handles keyboard input.
// handleKey обрабатывает ввод с клавиатуры.
func (e *Editor) handleKey(ev *tcell.EventKey) {
	if e.multiLinePrompt != nil {
		e.handlePanelInput(ev)
		return
	}
	if e.prompt != nil {
		e.handlePromptInput(ev)
		return
	}
	shift := ev.Modifiers()&tcell.ModShift != 0

	switch ev.Key() {
	case tcell.KeyCtrlO:
		e.promptShow("Open file (path)", func(input string) {
			if p := strings.TrimSpace(input); p != "" {
				e.openFile(p)
			}
		})
	case tcell.KeyCtrlS:
		e.save()
	case tcell.KeyCtrlW:
		e.saveAs(nil)
	case tcell.KeyCtrlN:
		e.newFile()
	case tcell.KeyCtrlR:
		e.handleRunCode()
	case tcell.KeyCtrlQ:
		e.requestQuit()
	case tcell.KeyCtrlZ:
		e.undo()
	case tcell.KeyCtrlE:
		e.redo()
	case tcell.KeyCtrlC:
		e.copySelection()
	case tcell.KeyCtrlX:
		e.cutSelection()
	case tcell.KeyCtrlV:
		e.pasteFromClipboard()
	case tcell.KeyCtrlA:
		e.selectAll()
	case tcell.KeyCtrlD:
		e.endSelection()
		e.clearFound()
	case tcell.KeyCtrlF:
		e.promptShowWithInitial("Find (old -> new replaces all)", e.lastSearch, e.handleFind)
	case tcell.KeyCtrlT:
		e.toggleRegex()
	case tcell.KeyCtrlG:
		e.promptShow("Go to line", func(input string) {
			n, err := strconv.Atoi(strings.TrimSpace(input))
			if err != nil || n <= 0 {
				return
			}
			e.cy = n - 1
			e.cx = 0
			e.endSelection()
			e.ensureVisible()
		})
	case tcell.KeyCtrlK:
		e.toggleComment()
	case tcell.KeyCtrlU:
		e.indentSelection()
	case tcell.KeyCtrlY, tcell.KeyBacktab:
		e.unindentSelection()
	case tcell.KeyCtrlL:
		e.promptShow("Color <category #hex> ("+strings.Join(requiredCategories, " ")+")", e.setSyntaxColor)
	case tcell.KeyCtrlB:
		e.saveColors()
	case tcell.KeyCtrlP:
		e.postToPaste()
	case tcell.KeyF2:
		e.askStackOverflow()
	case tcell.KeyCtrlJ, tcell.KeyF1:
		e.showPanel("Help", e.getUsageText())
	case tcell.KeyEscape:
		e.endSelection()
		e.clearFound()

	case tcell.KeyUp:
		e.moveLines(shift, func() {
			if e.cy > 0 {
				e.cy--
			}
		})
	case tcell.KeyDown:
		e.moveLines(shift, func() {
			if e.cy < len(e.lines)-1 {
				e.cy++
			}
		})
	case tcell.KeyLeft:
		e.moveCursor(shift, func() {
			if e.cx > 0 {
				e.cx--
			} else if e.cy > 0 {
				e.cy--
				e.cx = len([]rune(e.lines[e.cy]))
			}
		})
	case tcell.KeyRight:
		e.moveCursor(shift, func() {
			if e.cx < len([]rune(e.lines[e.cy])) {
				e.cx++
			} else if e.cy < len(e.lines)-1 {
				e.cy++
				e.cx = 0
			}
		})
	case tcell.KeyHome:
		e.moveCursor(shift, func() { e.cx = 0 })
	case tcell.KeyEnd:
		e.moveCursor(shift, func() { e.cx = len([]rune(e.lines[e.cy])) })
	case tcell.KeyPgUp:
		e.moveLines(shift, func() { e.cy -= e.visibleRows() })
	case tcell.KeyPgDn:
		e.moveLines(shift, func() { e.cy += e.visibleRows() })

	case tcell.KeyEnter:
		if e.selecting {
			e.deleteSelection()
		}
		e.newline()
	case tcell.KeyTab:
		if e.selecting {
			e.indentSelection()
		} else {
			e.insertTextAtCursor("    ")
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if e.selecting {
			e.deleteSelection()
		} else {
			e.backspace()
		}
	case tcell.KeyDelete:
		if e.selecting {
			e.deleteSelection()
		} else {
			e.deleteForward()
		}
	case tcell.KeyRune:
		if ev.Modifiers()&tcell.ModAlt != 0 {
			break
		}
		if e.selecting {
			e.deleteSelection()
		}
		e.insertRune(ev.Rune())
	}
	e.clampCursor()
	e.ensureVisible()
}
