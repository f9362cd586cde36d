// Package logging builds the leveled console logger shared by the CLI and the
// interactive board.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Prefix is printed before every log line.
const Prefix = "todo"

// New returns a logger writing to w. Only warnings and errors are written
// unless debug is set.
func New(w io.Writer, debug bool) *log.Logger {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: debug,
		Prefix:          Prefix,
	})
}

// OpenFile returns a debug logger appending to the file at path, for commands
// that own the terminal. The caller closes the returned file.
func OpenFile(path string) (*log.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, err
	}
	return New(f, true), f, nil
}

// Discard returns a logger that writes nothing.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
