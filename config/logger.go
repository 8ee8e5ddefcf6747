package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Logger forwards to the global zerolog logger. The zero value, and a nil
// *Logger, are usable.
type Logger struct{}

var Log *Logger

func (l *Logger) ZDebug() *zerolog.Event {
	return zlog.Debug()
}

func (l *Logger) Debugf(msg string, args ...interface{}) {
	zlog.Debug().Msg(fmt.Sprintf(msg, args...))
}

func (l *Logger) ZInfo() *zerolog.Event {
	return zlog.Info()
}

func (l *Logger) ZWarn() *zerolog.Event {
	return zlog.Warn()
}

func (l *Logger) Warnf(msg string, args ...interface{}) {
	zlog.Warn().Msg(fmt.Sprintf(msg, args...))
}

// PrettyDefault reports whether console-formatted logs should be used when
// the log.pretty option is not given.
func PrettyDefault() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// DoConfigureLogger sends logs to stderr, and to logPath when set, so that
// command output on stdout stays machine readable.
func DoConfigureLogger(logPath string, logLevel string, prettyLogging bool) error {
	writers := io.MultiWriter(os.Stderr)
	var file io.Writer
	if len(logPath) > 0 {
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", logPath, err)
		}
		file = f
	}

	if prettyLogging {
		console := zerolog.ConsoleWriter{Out: os.Stderr}
		if file != nil {
			writers = io.MultiWriter(console, file)
		} else {
			writers = console
		}
	} else if file != nil {
		writers = io.MultiWriter(os.Stderr, file)
	}
	zlog.Logger = zlog.Output(writers)

	// Set the log level (default to info)
	switch strings.ToLower(logLevel) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	return nil
}
