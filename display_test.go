package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScreenEditor(t *testing.T, src string, w, h int) (*Editor, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	t.Cleanup(s.Fini)
	s.SetSize(w, h)

	e := newTestEditor(t, src)
	e.screen = s
	e.refreshSize()
	return e, s
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func typeText(e *Editor, text string) {
	for _, r := range text {
		e.handleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func rowText(s tcell.SimulationScreen, y, w int) string {
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func TestWrapLine(t *testing.T) {
	e := bufferOf("")
	e.contentWidth = 4

	assert.Equal(t, []int{0}, e.wrapLine([]rune("abcd")))
	assert.Equal(t, []int{0, 4, 8}, e.wrapLine([]rune("abcdefghij")))
	assert.Equal(t, []int{0, 3}, e.wrapLine([]rune("abc日本")), "wide runes wrap as a whole")
	assert.Equal(t, []int{0, 2}, e.wrapLine([]rune("a\tb")), "a tab fills up to the next stop")
}

func TestDisplayPosition(t *testing.T) {
	e := bufferOf("abcdefghij", "x\ty")
	e.contentWidth = 4

	row, x := e.displayPosition(0, 5)
	assert.Equal(t, 1, row)
	assert.Equal(t, 1, x)

	row, x = e.displayPosition(1, 1)
	assert.Equal(t, 3, row)
	assert.Equal(t, 1, x)

	// "x\ty" wraps before y: the tab runs to column 4
	row, x = e.displayPosition(1, 2)
	assert.Equal(t, 4, row)
	assert.Equal(t, 0, x)

	rows := e.buildDisplayBuffer()
	require.Len(t, rows, 5)
	assert.Equal(t, DisplayRow{lineIndex: 0, segIndex: 2, start: 8, end: 10}, rows[2])
}

func TestEnsureVisible(t *testing.T) {
	e := bufferOf(strings.Split(strings.Repeat("x\n", 100), "\n")...)
	e.contentHeight = 14

	e.cy = 50
	e.ensureVisible()
	assert.Equal(t, 50-e.visibleRows()+1, e.offsetY)

	e.cy = 3
	e.ensureVisible()
	assert.Equal(t, 3, e.offsetY)
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, []string{"abc", "de", "", "f"}, wrapText("abcde\n\nf", 3))
}

func TestRender_ColorsSyntax(t *testing.T) {
	e, s := newScreenEditor(t, "def foo():\n    return 1", 60, 20)
	e.render()

	assert.Equal(t, "def foo():", rowText(s, 1, 60))
	assert.Equal(t, "    return 1", rowText(s, 2, 60))

	kw, err := hexToTcell(defaultPalette[CategoryKeyword])
	require.NoError(t, err)
	_, _, style, _ := s.GetContent(0, 1)
	fg, _, _ := style.Decompose()
	assert.Equal(t, kw, fg)

	def, err := hexToTcell(defaultPalette[CategoryDefinition])
	require.NoError(t, err)
	_, _, style, _ = s.GetContent(4, 1)
	fg, _, _ = style.Decompose()
	assert.Equal(t, def, fg)

	assert.Contains(t, rowText(s, 0, 60), "PYEDIT "+Version)
	assert.Contains(t, rowText(s, 18, 60), "^O Open")
}

func TestRender_EditedLineLosesColorUntilSave(t *testing.T) {
	e, s := newScreenEditor(t, "if x: pass", 60, 20)
	e.cx = 10
	typeText(e, " ")
	e.render()

	_, _, style, _ := s.GetContent(0, 1)
	fg, _, _ := style.Decompose()
	assert.Equal(t, tcell.ColorWhite, fg)
}

func TestRender_StatusAndError(t *testing.T) {
	e, s := newScreenEditor(t, "", 60, 20)
	e.statusMessage("hello there")
	e.render()
	assert.Equal(t, " hello there", rowText(s, 19, 60))

	e.showError("it broke")
	e.render()
	assert.Equal(t, " it broke", rowText(s, 19, 60))
	_, _, style, _ := s.GetContent(1, 19)
	_, bg, _ := style.Decompose()
	assert.Equal(t, tcell.ColorRed, bg)
}

func TestRender_Panel(t *testing.T) {
	e, s := newScreenEditor(t, "x", 60, 20)
	e.showPanel("Result", "line one\nline two")
	e.render()

	assert.Contains(t, rowText(s, 1, 60), "Result")
	assert.Equal(t, " line one", rowText(s, 2, 60))
	assert.Equal(t, " line two", rowText(s, 3, 60))

	e.handleKey(key(tcell.KeyEsc))
	assert.Nil(t, e.multiLinePrompt)
}

func TestHandleKey_Typing(t *testing.T) {
	e := newTestEditor(t, "")

	typeText(e, "if x:")
	e.handleKey(key(tcell.KeyEnter))
	typeText(e, "pass")
	assert.Equal(t, []string{"if x:", "    pass"}, e.lines)

	e.handleKey(key(tcell.KeyBackspace2))
	assert.Equal(t, "    pas", e.lines[1])

	e.handleKey(key(tcell.KeyCtrlZ))
	assert.Equal(t, "    pass", e.lines[1])
	e.handleKey(key(tcell.KeyCtrlE))
	assert.Equal(t, "    pas", e.lines[1])

	e.handleKey(key(tcell.KeyHome))
	e.handleKey(key(tcell.KeyDelete))
	assert.Equal(t, "   pas", e.lines[1])
}

func TestHandleKey_ShiftSelect(t *testing.T) {
	e := newTestEditor(t, "hello world")
	e.handleKey(key(tcell.KeyHome))
	for i := 0; i < 5; i++ {
		e.handleKey(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModShift))
	}
	assert.Equal(t, "hello", e.getSelectedText())

	typeText(e, "bye")
	assert.Equal(t, "bye world", e.lines[0])
	assert.False(t, e.selecting)
}

func TestHandleKey_FindPrompt(t *testing.T) {
	e := newTestEditor(t, "a = 1\nb = a")

	e.handleKey(key(tcell.KeyCtrlF))
	require.NotNil(t, e.prompt)
	typeText(e, "a")
	e.handleKey(key(tcell.KeyEnter))

	assert.Nil(t, e.prompt)
	assert.Len(t, e.tags.Ranges(tagFound), 2)
	assert.Equal(t, 1, e.cy)

	e.handleKey(key(tcell.KeyEsc))
	assert.Empty(t, e.tags.Ranges(tagFound))

	e.handleKey(key(tcell.KeyCtrlF))
	assert.Equal(t, "a", e.prompt.Value, "the last search is offered again")
	e.handleKey(key(tcell.KeyEsc))
	assert.Nil(t, e.prompt)
}

func TestHandleKey_ColorPrompt(t *testing.T) {
	e := newTestEditor(t, "while 1: pass")
	e.handleKey(key(tcell.KeyCtrlL))
	typeText(e, "keyword #00ff00")
	e.handleKey(key(tcell.KeyEnter))

	fg, ok := e.tags.Foreground(CategoryKeyword)
	require.True(t, ok)
	assert.Equal(t, tcell.NewRGBColor(0, 255, 0), fg)
}

func TestHandleKey_GotoLine(t *testing.T) {
	e := newTestEditor(t, "a\nb\nc")
	e.handleKey(key(tcell.KeyCtrlG))
	typeText(e, "3")
	e.handleKey(key(tcell.KeyEnter))
	assert.Equal(t, 2, e.cy)

	e.handleKey(key(tcell.KeyCtrlG))
	typeText(e, "99")
	e.handleKey(key(tcell.KeyEnter))
	assert.Equal(t, 2, e.cy, "the cursor stays inside the buffer")
}

func TestHandleKey_HelpPanel(t *testing.T) {
	e := newTestEditor(t, "")
	e.handleKey(key(tcell.KeyCtrlJ))
	require.NotNil(t, e.multiLinePrompt)
	assert.Contains(t, e.multiLinePrompt.Value, "Ctrl-R")
	assert.Contains(t, e.multiLinePrompt.Value, "keyword      #8f19f7")

	e.handleKey(key(tcell.KeyDown))
	assert.Equal(t, 1, e.multiLinePrompt.Scroll)
	e.handleKey(key(tcell.KeyEnter))
	assert.Nil(t, e.multiLinePrompt)
}

func TestHandleKey_Quit(t *testing.T) {
	e := newTestEditor(t, "")
	e.handleKey(key(tcell.KeyCtrlQ))
	assert.True(t, e.quit)
}

func TestWriteUsage(t *testing.T) {
	var en, ru strings.Builder
	writeUsage(&en, "en")
	writeUsage(&ru, "ru")

	assert.Contains(t, en.String(), "Hotkeys:")
	assert.Contains(t, en.String(), "-colors PATH")
	assert.Contains(t, ru.String(), "Горячие клавиши:")
	assert.Contains(t, ru.String(), "Ctrl-P")
}

func TestWriteColors(t *testing.T) {
	var b strings.Builder
	writeColors(&b, "en", map[string]string{"string": "#326601", "background": "#000000"})

	assert.Equal(t, "\nColors (^L to change, ^B to save):\n  background   #000000\n  string       #326601\n", b.String())
}

func TestDetectSystemLanguage(t *testing.T) {
	t.Setenv("LANG", "ru_RU.UTF-8")
	assert.Equal(t, "ru", detectSystemLanguage())
	t.Setenv("LANG", "en_US.UTF-8")
	assert.Equal(t, "en", detectSystemLanguage())
}
