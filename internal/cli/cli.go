// Package cli implements the crateq command line.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/llehouerou/crateq/internal/config"
	"github.com/llehouerou/crateq/internal/errmsg"
	"github.com/llehouerou/crateq/internal/searchquery"
	"github.com/llehouerou/crateq/internal/state"
)

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

var errUsage = errors.New("usage")

// usageError reports a malformed command line.
func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errUsage}, args...)...)
}

// opError carries the failed operation for the user-facing message.
type opError struct {
	op      errmsg.Op
	context string
	err     error
}

func (e *opError) Error() string {
	return errmsg.FormatWith(e.op, e.context, e.err)
}

func (e *opError) Unwrap() error {
	return e.err
}

func fail(op errmsg.Op, context string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, context: context, err: err}
}

// app holds what a command needs.
type app struct {
	stdout io.Writer
	stderr io.Writer
	cfg    *config.Config
	search config.SearchConfig
	state  state.Interface
	theme  *theme
}

type command struct {
	usage string
	run   func(a *app, args []string) error
}

var commands = map[string]command{
	"scan":   {"scan [-full] [dir...]", (*app).runScan},
	"tracks": {"tracks [-limit n]", (*app).runTracks},
	"crates": {"crates", (*app).runCrates},
	"crate":  {"crate create|rename|delete|lock|unlock|autodj|add|remove|tracks|repair ...", (*app).runCrate},
	"find":   {"find [filters...] [-sql|-memory|-check] [-limit n]", (*app).runFind},
}

// Run executes the command line and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("crateq", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file (default: ~/.config/crateq/config.toml, ./config.toml)")
	dbPath := fs.String("db", "", "database file (overrides the config)")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Usage = func() { printUsage(fs, stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}

	setupLogging(stderr, *verbose)

	if fs.NArg() == 0 {
		printUsage(fs, stderr)
		return ExitUsage
	}
	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", name)
		printUsage(fs, stderr)
		return ExitUsage
	}

	a, err := newApp(*configPath, *dbPath, stdout, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitError
	}
	defer a.state.Close()

	if err := cmd.run(a, fs.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "%v\nusage: crateq %s\n", err, cmd.usage)
			return ExitUsage
		}
		fmt.Fprintln(stderr, a.theme.error.Render(err.Error()))
		return ExitError
	}
	return ExitOK
}

func newApp(configPath, dbPath string, stdout, stderr io.Writer) (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fail(errmsg.OpConfigLoad, configPath, err)
	}

	search := cfg.GetSearchConfig()
	searchquery.SetBpmRelativeRange(*search.BpmFuzzyRange)

	if dbPath == "" {
		dbPath, err = cfg.DBPath()
		if err != nil {
			return nil, fail(errmsg.OpInitialize, "", err)
		}
	}
	slog.Debug("opening database", "path", dbPath)

	st, err := state.Open(dbPath)
	if err != nil {
		return nil, fail(errmsg.OpInitialize, dbPath, err)
	}

	return &app{
		stdout: stdout,
		stderr: stderr,
		cfg:    cfg,
		search: search,
		state:  st,
		theme:  newTheme(stdout),
	}, nil
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "usage: crateq [-config path] [-db path] [-v] <command> [args]")
	fmt.Fprintln(w, "\ncommands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
	fmt.Fprintln(w, "\nflags:")
	fs.PrintDefaults()
}

// newFlagSet returns a flag set for a subcommand that reports errors
// through Run instead of exiting.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// parseFlags parses a subcommand's flags, mapping failures to usage errors.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return usageError("%s: %v", fs.Name(), err)
	}
	return nil
}
