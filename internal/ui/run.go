package ui

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"todoclient/internal/client"
	"todoclient/internal/service"
	"todoclient/internal/view"
)

// ErrNotTTY is returned by Run when stdout is not a terminal.
var ErrNotTTY = errors.New("ui requires a TTY")

// Options configures Run.
type Options struct {
	// FallDuration is how long a deleted task shows before it is removed.
	FallDuration time.Duration

	// Logger receives transport failures. Nil discards them.
	Logger *log.Logger
}

// Run shows the board for svc until the user quits or ctx ends.
func Run(ctx context.Context, svc service.Service, opts Options) error {
	if !IsTTY(os.Stdout) {
		return ErrNotTTY
	}

	ctx, cancel := context.WithCancel(ctx)
	// Releases exchanges still blocked on an alert once the program is gone.
	defer cancel()

	alerter := NewAlerter(ctx)
	c, err := client.New(svc, view.NewBoard(), alerter,
		client.WithLogger(opts.Logger),
		client.WithFallDuration(opts.FallDuration),
	)
	if err != nil {
		return err
	}

	program := tea.NewProgram(New(ctx, c, alerter), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	return err
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
