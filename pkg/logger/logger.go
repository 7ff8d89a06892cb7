// Package logger provides the leveled application logger. Output goes to
// stdout and, when a directory is given, to a per-day log file.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Logger writes INFO, WARNING and ERROR lines through separate *log.Logger
// instances sharing one writer.
type Logger struct {
	info    *log.Logger
	warning *log.Logger
	err     *log.Logger
	file    *os.File
}

// New creates a Logger writing to stdout and to <dir>/<YYYY-MM-DD>.log.
// An empty dir logs to stdout only.
func New(dir string) (*Logger, error) {
	if dir == "" {
		return NewWithWriter(os.Stdout), nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	fileName := filepath.Join(dir, fmt.Sprintf("%s.log", time.Now().Format("2006-01-02")))
	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	l := NewWithWriter(io.MultiWriter(os.Stdout, file))
	l.file = file
	return l, nil
}

// NewWithWriter creates a Logger writing to w.
func NewWithWriter(w io.Writer) *Logger {
	flags := log.Ldate | log.Ltime | log.Lshortfile
	return &Logger{
		info:    log.New(w, "INFO: ", flags),
		warning: log.New(w, "WARNING: ", flags),
		err:     log.New(w, "ERROR: ", flags),
	}
}

// Discard returns a Logger that drops everything. Used in tests.
func Discard() *Logger {
	return NewWithWriter(io.Discard)
}

// Info logs at info level.
func (l *Logger) Info(format string, v ...interface{}) {
	l.info.Output(2, fmt.Sprintf(format, v...))
}

// Warning logs at warning level.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.warning.Output(2, fmt.Sprintf(format, v...))
}

// Error logs at error level.
func (l *Logger) Error(format string, v ...interface{}) {
	l.err.Output(2, fmt.Sprintf(format, v...))
}

// Writer exposes the info logger, e.g. for the gorm logger.
func (l *Logger) Writer() *log.Logger {
	return l.info
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
