package main

// go build -buildvcs=false -o pyedit .

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
)

// Version of the editor.
// Версия редактора.
const Version = "1.0.0"

// colorsFileName is the color scheme looked up when -colors is not given.
const colorsFileName = "syntax_colors.json"

// Editor represents the text editor state.
// Editor представляет состояние текстового редактора.
type Editor struct {
	screen          tcell.Screen
	filename        string
	lines           []string
	cx, cy          int
	offsetY         int
	dirty           bool
	clipboard       string
	prompt          *Prompt
	multiLinePrompt *MultiLinePrompt
	quit            bool
	contentWidth    int
	contentHeight   int
	selectStartX    int
	selectStartY    int
	selecting       bool
	lineSelecting   bool
	errorMessage    string
	errorShowTime   time.Time
	statusText      string
	statusShowTime  time.Time
	lastSearch      string
	regexSearch     bool
	undoStack       []EditorState
	redoStack       []EditorState
	bracketMatcher  *BracketMatcher

	syntax       *SyntaxEngine
	tags         *TagStore
	highlighted  []string
	searched     []string
	index        textIndex
	regexps      map[string]*regexp.Regexp
	integrations *Integrations
	python       string
}

// NewEditor creates an editor for path (which may not exist yet) that
// highlights through syntax.
// NewEditor создает новый экземпляр Editor.
func NewEditor(path string, syntax *SyntaxEngine) *Editor {
	e := &Editor{
		filename:      path,
		lines:         []string{""},
		contentWidth:  115,
		contentHeight: 35,
		syntax:        syntax,
		tags:          NewTagStore(),
		python:        "python3",
	}
	e.bracketMatcher = NewBracketMatcher(e)
	e.tags.SetBackground(tagFound, foundBackground)
	if path != "" {
		lines, err := readLines(path)
		switch {
		case err == nil:
			e.lines = lines
		case errors.Is(err, os.ErrNotExist):
			e.statusMessage("New file: " + path)
		default:
			e.showError("Unable to open the file: " + err.Error())
		}
	}
	e.rehighlight()
	return e
}

// readLines reads path and splits it into lines with \r\n normalised.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(content, "\n"), nil
}

// defaultColorsPath prefers a scheme next to the executable and falls back
// to the working directory.
func defaultColorsPath() string {
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), colorsFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return colorsFileName
}

// loadStartupScheme loads the color scheme at path. A missing file yields
// the default palette and a notice; any other problem is returned.
// loadStartupScheme загружает цветовую схему при запуске.
func loadStartupScheme(path string) (*ColorScheme, string, error) {
	cs, err := LoadColorScheme(path)
	if err == nil {
		logInfo(catConfig, "color scheme loaded", "path", path, "colors", cs.String())
		return cs, "", nil
	}
	if errors.Is(err, os.ErrNotExist) {
		logWarn(catConfig, "color scheme not found, using defaults", "path", path)
		return DefaultColorScheme(path), "Color scheme not found, using defaults", nil
	}
	logError(catConfig, "color scheme rejected", err, "path", path)
	return nil, "", err
}

// printVersion prints the editor version.
// printVersion выводит версию редактора.
func printVersion() {
	fmt.Println("pyedit version", Version)
}

// main is the entry point of the program.
// main является точкой входа в программу.
func main() {
	var (
		colorsPath  string
		debug       bool
		logPath     string
		python      string
		showVersion bool
	)
	flag.StringVar(&colorsPath, "colors", "", "color scheme file (JSON, or YAML by extension)")
	flag.BoolVar(&debug, "debug", false, "write a debug log")
	flag.StringVar(&logPath, "log", "pyedit.log", "debug log path")
	flag.StringVar(&python, "python", "python3", "interpreter used by Run")
	flag.BoolVar(&showVersion, "version", false, "Show version")
	flag.BoolVar(&showVersion, "v", false, "Show version (short)")
	flag.Usage = printUsageExtended
	flag.Parse()

	if showVersion {
		printVersion()
		return
	}

	if debug {
		closeLog, err := initLog(logPath, levelDebug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer closeLog()
	}

	if colorsPath == "" {
		colorsPath = defaultColorsPath()
	}
	scheme, notice, err := loadStartupScheme(colorsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) && cfgErr.Key != "" {
			fmt.Fprintf(os.Stderr, "Fix %q in %s or delete the file to use the defaults.\n", cfgErr.Key, colorsPath)
		}
		os.Exit(1)
	}

	editor := NewEditor(flag.Arg(0), NewSyntaxEngine(scheme))
	editor.python = python
	editor.integrations = NewIntegrations()
	if notice != "" {
		editor.statusMessage(notice)
	}

	if err := editor.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Editor startup error:", err)
	}
}
