package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todoclient/internal/config"
	"todoclient/internal/exitcode"
	"todoclient/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	printID bool
}

// SetPrintID makes the command print the new task's uuid (for testing).
func (c *AddCmd) SetPrintID(printID bool) {
	c.printID = printID
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Add a task" }
func (c *AddCmd) Usage() string      { return "todo add [--print-id] <name...>" }
func (c *AddCmd) NeedsService() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.printID, "print-id", false, "")
}

// Run adds the task named by args. Only an empty name is rejected locally;
// the server decides whether other names are acceptable.
func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	name := strings.Join(args, " ")
	if name == "" {
		fmt.Fprintln(errOut, "error: task name required")
		return exitcode.UserError
	}

	b, code := openBoard(ctx, svc, errOut)
	if b == nil {
		return code
	}

	b.board.SetInput(name)
	if err := b.client.AddTask(ctx, b.session); err != nil {
		return b.fail(err)
	}

	if c.printID {
		nodes := b.board.Nodes()
		fmt.Fprintln(out, nodes[len(nodes)-1].ID)
		return exitcode.Success
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
