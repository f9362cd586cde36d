package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todoclient/internal/config"
	"todoclient/internal/exitcode"
	"todoclient/internal/service"
	"todoclient/internal/view"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. It toggles completion, so running it
// on a completed task reopens it.
type DoneCmd struct{}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string   { return "Toggle task completion" }
func (c *DoneCmd) Usage() string      { return "todo done <n|id>..." }
func (c *DoneCmd) NeedsService() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runClick(ctx, cfg, svc, args, view.ClassComplete, out, errOut)
}

// runClick is the shared implementation for done and rm: it resolves every
// task reference against the full list, then presses each node's button once
// in argument order. It stops at the first failure.
func runClick(ctx context.Context, cfg *config.Config, svc service.Service, args []string, class string, out, errOut io.Writer) int {
	refs, err := ParseTaskRefs(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	b, code := openBoard(ctx, svc, errOut)
	if b == nil {
		return code
	}

	nodes := b.board.Nodes()
	var ids []string
	seen := make(map[string]bool)
	for _, ref := range refs {
		node, err := ref.Resolve(nodes)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		if !seen[node.ID] {
			seen[node.ID] = true
			ids = append(ids, node.ID)
		}
	}

	for _, id := range ids {
		if err := b.click(ctx, id, class); err != nil {
			return b.fail(err)
		}
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
