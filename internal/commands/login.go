package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"todoclient/internal/config"
	"todoclient/internal/exitcode"
	"todoclient/internal/service"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command. It stores a bearer token that is
// sent with every request, for endpoints deployed behind an auth proxy.
type LoginCmd struct {
	token     string
	tokenType string
	expiresIn time.Duration
}

// SetToken sets the token value (for testing).
func (c *LoginCmd) SetToken(token string) {
	c.token = token
}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return nil }
func (c *LoginCmd) Synopsis() string   { return "Store a bearer token for the endpoint" }
func (c *LoginCmd) Usage() string      { return "todo login --token <token> [--type <type>] [--expires-in <duration>]" }
func (c *LoginCmd) NeedsService() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.token, "token", "", "")
	fs.StringVar(&c.tokenType, "type", "Bearer", "")
	fs.DurationVar(&c.expiresIn, "expires-in", 0, "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	token := strings.TrimSpace(c.token)
	if token == "" {
		fmt.Fprintln(errOut, "error: --token required")
		return exitcode.UserError
	}
	if c.expiresIn < 0 {
		fmt.Fprintf(errOut, "error: invalid expires-in: %s\n", c.expiresIn)
		return exitcode.UserError
	}

	tok := &oauth2.Token{AccessToken: token, TokenType: c.tokenType}
	if tok.TokenType == "" {
		tok.TokenType = "Bearer"
	}
	if c.expiresIn > 0 {
		tok.Expiry = time.Now().Add(c.expiresIn)
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := cfg.SaveToken(tok); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
