package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"mlmodeld/internal/common/fsutil"
	"mlmodeld/internal/config"
)

// newLogger builds the process logger. With log_file set, output goes to a
// size-rotated file and is always JSON. The returned closer may be nil.
func newLogger(cfg config.Config) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	var (
		w      io.Writer = os.Stderr
		closer io.Closer
	)
	switch {
	case cfg.LogFile != "":
		path, err := fsutil.ExpandHome(cfg.LogFile)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		lj := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    100, // MB
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		w, closer = lj, lj
	case cfg.LogFormat == "console":
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	l := zerolog.New(w).Level(level).With().Timestamp().Str("service", "mlmodeld").Logger()
	return l, closer, nil
}
