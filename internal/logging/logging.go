// Package logging provides the subsystem-tagged slog.Logger backend shared
// by the match server and the supervisor, rotating log files the way a
// decred-ecosystem daemon does.
package logging

import (
	"os"
	"path/filepath"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// Config controls where logs land and how verbose they are.
type Config struct {
	// LogDir is created if missing. Empty disables file logging.
	LogDir string
	// LogFilename is the base name written under LogDir.
	LogFilename string
	// DebugLevel is a slog level string such as "info" or "debug".
	DebugLevel string
}

// Backend owns a rotator and hands out per-subsystem loggers that all write
// to the same rotating file (and stdout).
type Backend struct {
	rotator *rotator.Rotator
	level   slog.Level
}

// New creates a Backend. If cfg.LogDir is empty, logs go to stdout only.
func New(cfg Config) (*Backend, error) {
	level, ok := slog.LevelFromString(cfg.DebugLevel)
	if !ok {
		level = slog.LevelInfo
	}

	b := &Backend{level: level}
	if cfg.LogDir == "" {
		return b, nil
	}

	if err := os.MkdirAll(cfg.LogDir, 0o700); err != nil {
		return nil, err
	}
	logFile := filepath.Join(cfg.LogDir, cfg.LogFilename)
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return nil, err
	}
	b.rotator = r
	return b, nil
}

// Logger returns a tagged logger for subsystem, e.g. "MTCH" or "SPVR".
func (b *Backend) Logger(subsystem string) slog.Logger {
	backend := slog.NewBackend(&multiWriter{rotator: b.rotator})
	l := backend.Logger(subsystem)
	l.SetLevel(b.level)
	return l
}

// Close flushes and closes the underlying rotator, if any.
func (b *Backend) Close() {
	if b.rotator != nil {
		b.rotator.Close()
	}
}

// multiWriter fans each log line out to stdout and, if present, the rotator.
type multiWriter struct {
	rotator *rotator.Rotator
}

func (w *multiWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	if w.rotator != nil {
		return w.rotator.Write(p)
	}
	return len(p), nil
}
