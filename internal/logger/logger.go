// Package logger provides structured logging using zerolog.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger, tagging every entry with
// service. logfile may be empty, "stdout" or "stderr" for colored console
// output; anything else is a file that receives JSON lines. The returned
// function closes that file.
func Init(service string, verbose bool, logfile string) (func() error, error) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	writer, closeWriter, err := openWriter(logfile)
	if err != nil {
		return nil, err
	}
	console := closeWriter == nil

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.TimeOnly
	zerolog.TimestampFieldName = "time"
	zerolog.LevelFieldName = "level"
	zerolog.MessageFieldName = "message"
	zerolog.CallerMarshalFunc = shortCaller

	logger := newLogger(writer, console, verbose).With().Str("service", service).Logger()
	zerolog.DefaultContextLogger = &logger
	zlog.Logger = logger

	if console {
		return func() error { return nil }, nil
	}
	return func() error {
		zlog.Logger = zerolog.Nop()
		zerolog.DefaultContextLogger = nil
		return closeWriter()
	}, nil
}

// openWriter returns a nil close function for the console streams.
func openWriter(logfile string) (io.Writer, func() error, error) {
	switch strings.ToLower(logfile) {
	case "stdout", "":
		return os.Stdout, nil, nil
	case "stderr":
		return os.Stderr, nil, nil
	}

	f, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open log file %s", logfile)
	}
	return f, func() error {
		return errors.Wrapf(f.Close(), "close log file %s", logfile)
	}, nil
}

// newLogger adds the caller only in debug mode.
func newLogger(writer io.Writer, console bool, debug bool) zerolog.Logger {
	if !console {
		ctx := zerolog.New(writer).With().Timestamp()
		if debug {
			ctx = ctx.Caller()
		}
		return ctx.Logger()
	}

	if !debug {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        writer,
			TimeFormat: time.TimeOnly,
		}).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        writer,
		TimeFormat: time.TimeOnly,
		PartsOrder: []string{"time", "level", "message", "caller"},
		FormatCaller: func(i interface{}) string {
			return "(" + i.(string) + ")"
		},
	}).With().Timestamp().Caller().Logger()
}

// shortCaller keeps the last directory and file name, e.g. "timezone/strategy.go:42".
func shortCaller(pc uintptr, file string, line int) string {
	parts := strings.Split(file, string(filepath.Separator))
	if len(parts) > 1 {
		return filepath.Join(parts[len(parts)-2:]...) + ":" + strconv.Itoa(line)
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}
