package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"loandash/internal/config"
)

// Log is the process wide logger. It discards everything until Init runs so
// packages can log from tests without setup.
var Log = newDiscard()

func newDiscard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Init points Log at a rotating file, mirrored to stderr when cfg.Stderr is
// set. The dashboard keeps Stderr off so log lines never land on the screen.
func Init(cfg config.LogConfig) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var out io.Writer = io.Discard
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize, // megabytes
			MaxBackups: cfg.MaxBackups,
			MaxAge:     28, // days
			Compress:   cfg.Compress,
		}
	}
	if cfg.Stderr {
		out = io.MultiWriter(os.Stderr, out)
	}

	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	Log.SetLevel(level)
	Log.SetOutput(out)
	return nil
}
