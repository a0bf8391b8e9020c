// Package logging provides structured logging for the Quorix client.
// It wraps Go's log/slog package to write JSON lines to a local debug log.
// Nothing is shipped anywhere; the file is for post-hoc troubleshooting of
// poll failures, API errors and view resolution.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/quorix/quorix/internal/errors"
)

// Log levels supported by the logger
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// FileName is the name of the log file created inside the log directory.
const FileName = "debug.log"

// Options tunes a Logger beyond its level.
type Options struct {
	// MaxSizeMB rotates debug.log once it would exceed this size. 0 disables rotation.
	MaxSizeMB int
	// MaxBackups is how many rotated files (debug.log.1 ... .N) are kept.
	MaxBackups int
}

// Logger provides structured logging with context propagation.
// It is safe for concurrent use.
type Logger struct {
	logger *slog.Logger
	out    *sizedFile
	mu     sync.Mutex
	attrs  []slog.Attr // Persistent attributes (view, session, endpoint)
}

// NewLogger creates a Logger that writes JSON-formatted logs to
// {dir}/debug.log. If dir is empty, logs go to stderr.
//
// The level parameter controls which messages are logged:
//   - DEBUG: All messages
//   - INFO: Info, Warn, and Error messages
//   - WARN: Warn and Error messages
//   - ERROR: Only Error messages
func NewLogger(dir string, level string, opts ...Options) (*Logger, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	var writer io.Writer = os.Stderr
	var out *sizedFile

	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		var err error
		out, err = openSizedFile(filepath.Join(dir, FileName), o)
		if err != nil {
			return nil, err
		}
		writer = out
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: parseLevel(level),
	})

	return &Logger{
		logger: slog.New(handler),
		out:    out,
		attrs:  make([]slog.Attr, 0),
	}, nil
}

// parseLevel converts a string log level to slog.Level.
// Defaults to INFO if the level string is not recognized.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithView returns a child Logger tagged with the mounted view variant.
func (l *Logger) WithView(view string) *Logger {
	return l.withAttr(slog.String("view", view))
}

// WithSession returns a child Logger tagged with the event session id.
func (l *Logger) WithSession(sessionID string) *Logger {
	return l.withAttr(slog.String("session_id", sessionID))
}

// WithEndpoint returns a child Logger tagged with a REST endpoint, typically
// the one a poller fetches.
func (l *Logger) WithEndpoint(endpoint string) *Logger {
	return l.withAttr(slog.String("endpoint", endpoint))
}

// With returns a new Logger with arbitrary key-value attributes.
// Keys and values are provided as alternating arguments.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}

	newAttrs := make([]slog.Attr, 0, len(l.attrs)+len(args)/2)
	newAttrs = append(newAttrs, l.attrs...)

	for i := 0; i < len(args)-1; i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		newAttrs = append(newAttrs, slog.Any(key, args[i+1]))
	}

	return &Logger{
		logger: l.logger,
		out:    l.out,
		attrs:  newAttrs,
	}
}

func (l *Logger) withAttr(attr slog.Attr) *Logger {
	newAttrs := make([]slog.Attr, len(l.attrs)+1)
	copy(newAttrs, l.attrs)
	newAttrs[len(l.attrs)] = attr

	return &Logger{
		logger: l.logger,
		out:    l.out,
		attrs:  newAttrs,
	}
}

// Debug logs a message at DEBUG level with optional key-value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

// Info logs a message at INFO level with optional key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

// Warn logs a message at WARN level with optional key-value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

// Error logs a message at ERROR level with optional key-value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

// Failure logs err at the level its severity calls for, tagged with whether
// the next attempt may succeed.
func (l *Logger) Failure(msg string, err error, args ...any) {
	if err == nil {
		return
	}
	sev := errors.GetSeverity(err)
	args = append(args, "error", err.Error(), "severity", sev.String(), "retryable", errors.IsRetryable(err))
	l.log(severityLevel(sev), msg, args...)
}

func severityLevel(s errors.Severity) slog.Level {
	switch s {
	case errors.SeverityDebug:
		return slog.LevelDebug
	case errors.SeverityInfo:
		return slog.LevelInfo
	case errors.SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	if l == nil {
		return
	}
	allArgs := make([]any, 0, len(l.attrs)*2+len(args))
	for _, attr := range l.attrs {
		allArgs = append(allArgs, attr.Key, attr.Value.Any())
	}
	allArgs = append(allArgs, args...)

	l.logger.Log(context.Background(), level, msg, allArgs...)
}

// Close flushes and closes the log file.
// For a stderr logger this is a no-op.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.out != nil {
		err := l.out.Close()
		l.out = nil
		return err
	}
	return nil
}

// NopLogger returns a Logger that discards all log output.
func NopLogger() *Logger {
	return &Logger{
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		attrs:  make([]slog.Attr, 0),
	}
}

// ParseLevel converts a string level to the corresponding constant.
// Returns LevelInfo if the level string is not recognized.
func ParseLevel(level string) string {
	switch strings.ToUpper(level) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return strings.ToUpper(level)
	default:
		return LevelInfo
	}
}

// ValidLevels returns the list of valid log level strings.
func ValidLevels() []string {
	return []string{LevelDebug, LevelInfo, LevelWarn, LevelError}
}

// sizedFile is an append-only log file that rolls itself over to
// numbered backups once it passes a size limit.
type sizedFile struct {
	mu      sync.Mutex
	path    string
	limit   int64
	backups int
	f       *os.File
	size    int64
}

func openSizedFile(path string, o Options) (*sizedFile, error) {
	s := &sizedFile{
		path:    path,
		limit:   int64(o.MaxSizeMB) * 1024 * 1024,
		backups: o.MaxBackups,
	}
	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *sizedFile) open() error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	s.f = f
	s.size = info.Size()
	return nil
}

func (s *sizedFile) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return 0, fmt.Errorf("log file is closed")
	}
	if s.limit > 0 && s.size > 0 && s.size+int64(len(p)) > s.limit {
		if err := s.roll(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: log rotation failed: %v\n", err)
		}
	}
	n, err := s.f.Write(p)
	s.size += int64(n)
	return n, err
}

// roll shifts debug.log.(i) to .(i+1), drops the oldest and reopens.
// The caller must hold the mutex.
func (s *sizedFile) roll() error {
	if err := s.f.Close(); err != nil {
		return err
	}
	s.f = nil

	if s.backups <= 0 {
		_ = os.Remove(s.path)
		return s.open()
	}

	_ = os.Remove(fmt.Sprintf("%s.%d", s.path, s.backups))
	for i := s.backups - 1; i >= 1; i-- {
		_ = os.Rename(fmt.Sprintf("%s.%d", s.path, i), fmt.Sprintf("%s.%d", s.path, i+1))
	}
	if err := os.Rename(s.path, s.path+".1"); err != nil {
		if openErr := s.open(); openErr != nil {
			return openErr
		}
		return err
	}
	return s.open()
}

func (s *sizedFile) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return nil
	}
	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	s.f = nil
	return nil
}
