// Package tui provides terminal output, prompts, and formatting for the CLI.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/natefinch/lumberjack.v2"
)

// simpleHandler is a custom slog handler that writes messages without
// timestamps or level prefixes
type simpleHandler struct {
	writer    io.Writer
	debugMode bool
	quiet     *bool
}

func (h *simpleHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level == slog.LevelDebug {
		return h.debugMode
	}
	return true
}

func (h *simpleHandler) Handle(_ context.Context, record slog.Record) error {
	if *h.quiet {
		return nil
	}
	_, err := fmt.Fprintln(h.writer, record.Message)
	return err
}

func (h *simpleHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *simpleHandler) WithGroup(_ string) slog.Handler {
	return h
}

// createLumberjackLogger creates the rotating debug log with configuration
// from environment variables
func createLumberjackLogger(logFilePath string) *lumberjack.Logger {
	logger := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    1,  // megabytes
		MaxBackups: 2,
		MaxAge:     30, // days
		Compress:   false,
	}

	if maxSizeStr := os.Getenv("BB_LOG_MAX_SIZE"); maxSizeStr != "" {
		if maxSize, err := strconv.Atoi(maxSizeStr); err == nil && maxSize > 0 {
			logger.MaxSize = maxSize
		}
	}
	if maxBackupsStr := os.Getenv("BB_LOG_MAX_BACKUPS"); maxBackupsStr != "" {
		if maxBackups, err := strconv.Atoi(maxBackupsStr); err == nil && maxBackups >= 0 {
			logger.MaxBackups = maxBackups
		}
	}
	if maxAgeStr := os.Getenv("BB_LOG_MAX_AGE"); maxAgeStr != "" {
		if maxAge, err := strconv.Atoi(maxAgeStr); err == nil && maxAge > 0 {
			logger.MaxAge = maxAge
		}
	}

	return logger
}

// fileHandler mirrors every record, including debug, into the log file.
type fileHandler struct {
	inner slog.Handler
}

func (h *fileHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }
func (h *fileHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}
func (h *fileHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &fileHandler{inner: h.inner.WithAttrs(attrs)}
}
func (h *fileHandler) WithGroup(name string) slog.Handler {
	return &fileHandler{inner: h.inner.WithGroup(name)}
}

// multiHandler fans out log records to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// Splog provides the CLI's user-facing output: plain messages on stdout and
// a rotating debug log under .git.
type Splog struct {
	logger *slog.Logger
	quiet  bool
}

// NewSplog creates a Splog writing to stdout.
func NewSplog() *Splog {
	return NewSplogWithLogFile("")
}

// NewSplogWithLogFile creates a Splog that also mirrors output, including
// debug records, to a rotating log file. An empty path disables the file.
func NewSplogWithLogFile(logFilePath string) *Splog {
	s := &Splog{}

	handlers := []slog.Handler{
		&simpleHandler{
			writer:    os.Stdout,
			debugMode: os.Getenv("BB_DEBUG") != "",
			quiet:     &s.quiet,
		},
	}
	if logFilePath != "" {
		fileWriter := createLumberjackLogger(logFilePath)
		handlers = append(handlers, &fileHandler{
			inner: slog.NewTextHandler(fileWriter, &slog.HandlerOptions{Level: slog.LevelDebug}),
		})
	}

	s.logger = slog.New(&multiHandler{handlers: handlers})
	return s
}

// DefaultLogFilePath returns the debug log location inside a repository.
func DefaultLogFilePath(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", "baobranch.log")
}

// SetQuiet suppresses stdout output.
func (s *Splog) SetQuiet(quiet bool) {
	s.quiet = quiet
}

// Info writes an info message
func (s *Splog) Info(format string, args ...interface{}) {
	s.logger.Info(fmt.Sprintf(format, args...))
}

// Warn writes a warning message
func (s *Splog) Warn(format string, args ...interface{}) {
	s.logger.Warn("⚠️  " + fmt.Sprintf(format, args...))
}

// Debug writes a debug message, shown only when BB_DEBUG is set
func (s *Splog) Debug(format string, args ...interface{}) {
	s.logger.Debug(fmt.Sprintf(format, args...))
}

// Tip writes a tip message
func (s *Splog) Tip(format string, args ...interface{}) {
	s.logger.Info("💡 " + fmt.Sprintf(format, args...))
}

// Newline writes a blank line
func (s *Splog) Newline() {
	s.logger.Info("")
}

// Page writes preformatted multi-line content.
func (s *Splog) Page(content string) {
	if s.quiet {
		return
	}
	fmt.Fprint(os.Stdout, content)
}
