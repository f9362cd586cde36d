package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"todoclient/internal/config"
	"todoclient/internal/exitcode"
	"todoclient/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct {
	registry *Registry
}

// NewHelpCmd returns a help command listing the commands of r.
func NewHelpCmd(r *Registry) *HelpCmd {
	return &HelpCmd{registry: r}
}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "todo help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	registry := c.registry
	if registry == nil {
		registry = DefaultRegistry
	}

	fmt.Fprintln(out, "Usage:")
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  todo\tOpen the board (list when stdout is not a terminal)")
	for _, cmd := range registry.All() {
		fmt.Fprintf(tw, "  %s\t%s\n", cmd.Usage(), cmd.Synopsis())
	}
	tw.Flush()
	fmt.Fprint(out, commonFlagsText)
	return exitcode.Success
}

const commonFlagsText = `
Tasks are numbered as printed by 'todo list'.

Common flags:
  --config <dir>     Override config directory
  --endpoint <url>   Override the endpoint URL
  --quiet            Suppress informational output
  --debug            Print debug logs (to debug.log in the config directory for ui)
`
