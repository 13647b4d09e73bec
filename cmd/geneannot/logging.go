package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// terminalWriter wraps an io.Writer and exposes an Fd method so libraries that
// inspect the file descriptor (for TTY detection) can work with wrapped writers.
type terminalWriter struct {
	w  io.Writer
	fd uintptr
}

func (tw *terminalWriter) Write(p []byte) (int, error) { return tw.w.Write(p) }

// Fd exposes the underlying file descriptor (e.g., os.Stderr.Fd()).
func (tw *terminalWriter) Fd() uintptr { return tw.fd }

// levelFor maps the configured level name; verbose wins. The second result is
// false for an unknown name, which falls back to info.
func levelFor(verbose bool, name string) (log.Level, bool) {
	if verbose {
		return log.DebugLevel, true
	}
	switch strings.ToLower(name) {
	case "debug":
		return log.DebugLevel, true
	case "info", "":
		return log.InfoLevel, true
	case "warn", "warning":
		return log.WarnLevel, true
	case "error":
		return log.ErrorLevel, true
	}
	return log.InfoLevel, false
}

// newLogger writes to stderr and, when logFile is set, appends to that file too.
// The returned func closes the log file.
func newLogger(stderr io.Writer, logFile, level string, verbose bool) (*log.Logger, func()) {
	out := stderr
	closeFn := func() {}
	var fileErr error
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			out = io.MultiWriter(stderr, f)
			closeFn = func() { _ = f.Close() }
		} else {
			fileErr = err
		}
	}
	if f, ok := stderr.(*os.File); ok {
		out = &terminalWriter{w: out, fd: f.Fd()}
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "geneannot",
	})
	lvl, known := levelFor(verbose, level)
	logger.SetLevel(lvl)
	if !known {
		logger.Warn("unknown log_level in config, defaulting to info", "provided", level)
	}
	if fileErr != nil {
		logger.Warn("log_file could not be opened; logging to stderr only", "path", logFile, "err", fileErr)
	}
	return logger, closeFn
}
