// Package logging builds the timestamped line logger used for every
// run. Daemon mode adds a rotating append-only file so the log survives
// restarts.
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/opsdrift/retentiond/internal/config"
)

// New returns a logger writing timestamped lines to stdout and, when a
// file is configured, to a size- and age-rotated log file. Close the
// returned closer when shutting down; it is a no-op for stdout-only
// logging.
func New(cfg config.LogConfig) (*log.Logger, io.Closer) {
	if cfg.File == "" {
		return log.New(os.Stdout, "", log.LstdFlags), nopCloser{}
	}

	rotating := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}

	return log.New(io.MultiWriter(os.Stdout, rotating), "", log.LstdFlags), rotating
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
