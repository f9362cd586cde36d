package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"todoclient/internal/config"
	"todoclient/internal/exitcode"
	"todoclient/internal/logging"
	"todoclient/internal/service"
	"todoclient/internal/ui"
)

func init() {
	Register(&UICmd{})
}

// runUI is replaced in tests.
var runUI = ui.Run

// UICmd implements the ui command: the interactive board.
type UICmd struct {
	logger *log.Logger
}

func (c *UICmd) Name() string       { return "ui" }
func (c *UICmd) Aliases() []string  { return []string{"board"} }
func (c *UICmd) Synopsis() string   { return "Open the interactive board" }
func (c *UICmd) Usage() string      { return "todo ui" }
func (c *UICmd) NeedsService() bool { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

// SetLogger implements Interactive.
func (c *UICmd) SetLogger(logger *log.Logger) {
	c.logger = logger
}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	logger := c.logger
	if logger == nil {
		logger = logging.Discard()
	}
	err := runUI(ctx, svc, ui.Options{FallDuration: cfg.FallDuration, Logger: logger})
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, ui.ErrNotTTY):
		fmt.Fprintf(errOut, "error: %v (use: todo list)\n", err)
		return exitcode.UserError
	}
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.BackendError
}
