package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// logLevel is the severity of a log entry.
type logLevel int

const (
	levelDebug logLevel = iota
	levelInfo
	levelWarn
	levelError
)

func (l logLevel) String() string {
	switch l {
	case levelDebug:
		return "DEBUG"
	case levelInfo:
		return "INFO"
	case levelWarn:
		return "WARN"
	case levelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// logCategory groups related log messages.
type logCategory string

const (
	catSyntax logCategory = "syntax" // tokenizer and highlight passes
	catConfig logCategory = "config" // color scheme loading/saving
	catUI     logCategory = "ui"     // editor commands
	catNet    logCategory = "net"    // hastebin, Stack Overflow
	catRun    logCategory = "run"    // python runs
)

// fileLogger writes leveled, categorised entries. Nothing is written
// until initLog is called, so the editor stays silent without -debug.
type fileLogger struct {
	mu       sync.Mutex
	file     *os.File
	writer   io.Writer
	minLevel logLevel
}

var logger *fileLogger

// initLog opens path for appending and routes every log call there.
// The returned func closes the file.
// initLog открывает файл журнала; возвращает функцию закрытия.
func initLog(path string, minLevel logLevel) (func(), error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}
	logger = &fileLogger{file: f, writer: f, minLevel: minLevel}
	return func() {
		logger = nil
		_ = f.Close()
	}, nil
}

// setLogOutput routes log entries to w; a nil w disables logging.
func setLogOutput(w io.Writer, minLevel logLevel) {
	if w == nil {
		logger = nil
		return
	}
	logger = &fileLogger{writer: w, minLevel: minLevel}
}

func logDebug(cat logCategory, msg string, fields ...interface{}) {
	writeLog(levelDebug, cat, msg, fields...)
}

func logInfo(cat logCategory, msg string, fields ...interface{}) {
	writeLog(levelInfo, cat, msg, fields...)
}

func logWarn(cat logCategory, msg string, fields ...interface{}) {
	writeLog(levelWarn, cat, msg, fields...)
}

func logError(cat logCategory, msg string, err error, fields ...interface{}) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	writeLog(levelError, cat, msg, fields...)
}

func writeLog(level logLevel, cat logCategory, msg string, fields ...interface{}) {
	l := logger
	if l == nil || level < l.minLevel {
		return
	}

	// 2026-01-02T15:04:05 [WARN] [config] message key=value
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s", time.Now().Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		fmt.Fprintf(&b, " %v=<missing>", fields[len(fields)-1])
	}
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.writer, b.String())
}
