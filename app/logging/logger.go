// Package logging configures the process-wide slog logger. Records go to the
// console and to an append-only log file inside the export directory.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

const LogFileName = "export_log.txt"

// MaxLogSizeMB is the size at which export_log.txt is rotated. Lines are only
// ever appended; rotation renames the full file with a timestamp suffix and
// starts a new one.
const MaxLogSizeMB = 100

// Setup installs a default slog logger writing to stdout and to
// export_log.txt under dir. The returned closer releases the log file.
func Setup(dir string, debug bool) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	file := &lumberjack.Logger{
		Filename:  filepath.Join(dir, LogFileName),
		MaxSize:   MaxLogSizeMB,
		LocalTime: true,
	}

	logger := slog.New(TeeHandler(
		slog.NewTextHandler(os.Stdout, opts),
		slog.NewTextHandler(file, opts),
	))
	slog.SetDefault(logger)

	return logger, file, nil
}
