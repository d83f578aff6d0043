package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// runTimeout bounds one Run of the buffer.
const runTimeout = 30 * time.Second

// runPython writes code to a temporary file and runs it with python in
// dir, capturing stdout and stderr.
// runPython запускает код через интерпретатор Python.
func runPython(ctx context.Context, python, code, dir string, args ...string) (string, string, error) {
	tmp, err := os.CreateTemp("", "pyedit_*.py")
	if err != nil {
		return "", "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(code); err != nil {
		tmp.Close()
		return "", "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", "", fmt.Errorf("close temp file: %w", err)
	}

	cmd := exec.CommandContext(ctx, python, append([]string{tmp.Name()}, args...)...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err = cmd.Run()
	if ctx.Err() != nil {
		err = fmt.Errorf("run stopped: %w", ctx.Err())
	}
	return stdout.String(), stderr.String(), err
}

// runReport turns a run's outcome into a panel title and body.
func runReport(stdout, stderr string, err error) (string, string) {
	if err == nil {
		if stdout == "" {
			stdout = "(no output)"
		}
		return "Result", stdout
	}
	var body strings.Builder
	body.WriteString(stdout)
	if stderr != "" {
		if body.Len() > 0 && !strings.HasSuffix(stdout, "\n") {
			body.WriteByte('\n')
		}
		body.WriteString(stderr)
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		if body.Len() > 0 {
			body.WriteByte('\n')
		}
		body.WriteString(err.Error())
	}
	return "Error", body.String()
}

// handleRunCode runs the buffer and shows the output. An unnamed buffer is
// saved first, as the script needs a directory to run in.
// handleRunCode запускает код буфера и показывает результат.
func (e *Editor) handleRunCode() {
	if e.filename == "" {
		e.saveAs(e.handleRunCode)
		return
	}
	code := strings.Join(e.lines, "\n")
	dir := filepath.Dir(e.filename)

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	start := time.Now()
	stdout, stderr, err := runPython(ctx, e.python, code, dir)
	logInfo(catRun, "run finished", "file", e.filename, "python", e.python, "elapsed", time.Since(start), "err", err)

	title, body := runReport(stdout, stderr, err)
	e.showPanel(title, body)
}
