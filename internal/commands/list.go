package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todoclient/internal/config"
	"todoclient/internal/exitcode"
	"todoclient/internal/output"
	"todoclient/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todo` (no args, no terminal) and `todo list`.
type ListCmd struct {
	filter string
	long   bool
}

// SetFilter sets the filter value (for testing).
func (c *ListCmd) SetFilter(filter string) {
	c.filter = filter
}

// SetLong enables task id output (for testing).
func (c *ListCmd) SetLong(long bool) {
	c.long = long
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "todo list [--filter all|completed|uncompleted] [--long]" }
func (c *ListCmd) NeedsService() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", string(service.FilterAll), "")
	fs.BoolVar(&c.long, "long", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	filterValue := c.filter
	if filterValue == "" {
		filterValue = string(service.FilterAll)
	}
	filter, err := service.ParseFilter(filterValue)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	b, code := openBoard(ctx, svc, errOut)
	if b == nil {
		return code
	}

	// Filtered tasks keep the numbers they have in the full list so that
	// done and rm accept what list printed.
	positions := make(map[string]int)
	for i, n := range b.board.Nodes() {
		positions[n.ID] = i + 1
	}

	if filter != service.FilterAll {
		if err := b.client.FilterTasks(ctx, b.session, string(filter)); err != nil {
			return b.fail(err)
		}
	}

	nodes := b.board.Nodes()
	if len(nodes) == 0 {
		if !cfg.Quiet {
			output.FormatEmpty(out, filter)
		}
		return exitcode.Success
	}

	for i, n := range nodes {
		num, ok := positions[n.ID]
		if !ok {
			// Added by someone else between the two exchanges.
			num = len(positions) + i + 1
		}
		if c.long {
			output.FormatTaskLong(out, num, taskOf(n))
		} else {
			output.FormatTask(out, num, taskOf(n))
		}
	}
	return exitcode.Success
}
