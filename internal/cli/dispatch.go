package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"todoclient/internal/commands"
	"todoclient/internal/config"
	"todoclient/internal/exitcode"
	"todoclient/internal/logging"
	"todoclient/internal/service"
	"todoclient/internal/ui"
)

// DebugLogFile receives the logs of interactive commands under --debug.
const DebugLogFile = "debug.log"

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	isTTY    func(io.Writer) bool
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		isTTY:    ui.IsTTY,
	}
}

// SetTTYCheck replaces the terminal detection that picks the default
// command (for testing).
func (d *Dispatcher) SetTTYCheck(isTTY func(io.Writer) bool) {
	d.isTTY = isTTY
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> the board on a terminal, a plain listing otherwise
	if len(args) == 0 {
		name := "list"
		if d.isTTY(out) {
			name = "ui"
		}
		return d.dispatch(ctx, name, nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var endpoint string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&endpoint, "endpoint", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A positional arg starting with - should have been parsed as a flag
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}

	logger, closeLog, err := d.logger(cmd, cfg, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to open debug log: %v\n", err)
		return exitcode.UserError
	}
	defer closeLog()

	var svc service.Service
	if cmd.NeedsService() {
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: no backend configured")
			return exitcode.BackendError
		}
		svc, err = d.factory(ctx, cfg, logger)
		if err != nil {
			if strings.Contains(err.Error(), "token") || strings.Contains(err.Error(), "auth") {
				fmt.Fprintf(errOut, "error: auth error: %s\n", err)
				return exitcode.AuthError
			}
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
	}

	logger.Debug("dispatch", "command", cmd.Name(), "endpoint", cfg.Endpoint)
	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

// logger builds the logger for cmd. Interactive commands own the terminal,
// so their logs go to a file in the config directory, and only under --debug.
func (d *Dispatcher) logger(cmd commands.Command, cfg *config.Config, errOut io.Writer) (*log.Logger, func(), error) {
	interactive, ok := cmd.(commands.Interactive)
	if !ok {
		return logging.New(errOut, cfg.Debug), func() {}, nil
	}

	logger := logging.Discard()
	closeLog := func() {}
	if cfg.Debug {
		if err := cfg.EnsureDir(); err != nil {
			return nil, nil, err
		}
		fileLogger, f, err := logging.OpenFile(filepath.Join(cfg.Dir, DebugLogFile))
		if err != nil {
			return nil, nil, err
		}
		logger = fileLogger
		closeLog = func() { f.Close() }
	}
	interactive.SetLogger(logger)
	return logger, closeLog, nil
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	// Missing flag value
	if strings.Contains(errStr, "flag needs an argument") {
		flagPart := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
		return "flag needs an argument: " + flagPart
	}

	// Unknown flag
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		return "unknown flag: " + strings.TrimPrefix(errStr, "flag provided but not defined: ")
	}

	return errStr
}
