// Package logging builds the zerolog loggers used across boxlabel.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps a config or flag value to a zerolog level. Unknown values
// fall back to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "OFF", "DISABLED":
		return zerolog.Disabled
	}
	return zerolog.InfoLevel
}

// New returns a console logger writing to w at the given level. Extra
// writers, such as a log file, receive the same records without colour.
func New(w io.Writer, level string, extra ...io.Writer) zerolog.Logger {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}}
	for _, e := range extra {
		writers = append(writers, zerolog.ConsoleWriter{Out: e, TimeFormat: time.RFC3339, NoColor: true})
	}
	var out io.Writer = writers[0]
	if len(writers) > 1 {
		out = zerolog.MultiLevelWriter(writers...)
	}
	return zerolog.New(out).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// Stderr is New(os.Stderr, level).
func Stderr(level string) zerolog.Logger { return New(os.Stderr, level) }

// Nop discards everything. Packages default to it when no logger is given.
func Nop() zerolog.Logger { return zerolog.Nop() }
