package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/peterbourgon/ff"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/denisbrodbeck/gearbox"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// engine is a migration engine holding a database connection until closed.
type engine interface {
	gearbox.Engine
	io.Closer
}

// engineFactory builds the engine a migrate command is run against.
type engineFactory func(config gearbox.Config, options ...gearbox.Option) engine

func newMigrator(config gearbox.Config, options ...gearbox.Option) engine {
	return gearbox.New(config, options...)
}

// ParseAndRun parses the command line, and then runs the passed commands.
func ParseAndRun(stdout, stderr io.Writer, stdin io.Reader, args []string) int {
	return parseAndRun(stdout, stderr, args, newMigrator)
}

func parseAndRun(stdout, stderr io.Writer, args []string, factory engineFactory) int {
	if len(args) == 0 {
		io.WriteString(stderr, usage)
		return exitUsage
	}

	switch strings.ToLower(args[0]) {
	case "migrate":
		return runMigrate(stdout, stderr, args[1:], factory)
	case "version":
		fmt.Fprintln(stdout, gitTag)
		return exitOK
	case "help", "-h", "-help", "--help":
		io.WriteString(stdout, usage)
		return exitOK
	}

	fmt.Fprintf(stderr, "%s\nUsage error: unknown command %q\n", usage, args[0])
	return exitUsage
}

func runMigrate(stdout, stderr io.Writer, args []string, factory engineFactory) int {
	fs := flag.NewFlagSet("gearbox migrate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fs.Output().Write([]byte(migrateUsage))
	}
	var (
		flagConfig      = fs.String("config", gearbox.DefaultConfigFile, "application config file to read")
		flagConfigShort = fs.String("c", "", "application config file to read (shorthand)")
		flagTable       = fs.String("table", gearbox.DefaultHistoryTable, "name of applied migrations history table")
		flagSequential  = fs.Bool("sequential", false, "number new migrations sequentially instead of by timestamp")
		flagTimeout     = fs.Duration("timeout", time.Minute*5, "maximum run time of a command")
		flagVerbose     = fs.Bool("v", false, "verbose output")
	)
	err := ff.Parse(fs, args, ff.WithEnvVarPrefix("GEARBOX"))
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fs.Output().Write([]byte(fmt.Sprintf("\nUsage error: %s\n", err)))
			return exitUsage
		}
		return exitOK
	}

	inv, err := parseCommand(fs.Args())
	if err != nil {
		fs.Output().Write([]byte(fmt.Sprintf("%s\nUsage error: %s\n", migrateUsage, err)))
		return exitUsage
	}
	inv.ConfigFile = *flagConfig
	if *flagConfigShort != "" {
		inv.ConfigFile = *flagConfigShort
	}

	out := newLogger(stdout, *flagVerbose)
	errlog := newLogger(stderr, *flagVerbose)
	defer out.Sync()
	defer errlog.Sync()

	// wire up migrator with user-provided options and connect library logger to stdout
	migrator := factory(inv.Config(),
		gearbox.WithHistoryTable(*flagTable),
		gearbox.WithSequential(*flagSequential),
		gearbox.WithVerbose(*flagVerbose),
		gearbox.WithLogger(out.Sugar().Info),
	)
	defer logCloser(migrator, errlog)

	ctx, cancelFunc := context.WithTimeout(context.Background(), *flagTimeout)
	defer cancelFunc()

	out.Debug("running migrate command",
		zap.Stringer("command", inv.Subcommand),
		zap.String("argument", inv.Argument),
		zap.String("config", inv.ConfigFile),
	)
	if err := gearbox.Run(ctx, migrator, inv); err != nil {
		errlog.Error(fmt.Sprintf("failed to run %s: %v", inv.Subcommand, err))
		if details, ok := formatDriverError(err); ok {
			errlog.Error(details)
		}
		return exitFailure
	}

	return exitOK
}

// parseCommand turns the positional migrate arguments into an Invocation.
func parseCommand(args []string) (gearbox.Invocation, error) {
	if len(args) == 0 {
		return gearbox.Invocation{}, errors.New("missing command")
	}
	sub, err := gearbox.ParseSubcommand(args[0])
	if err != nil {
		return gearbox.Invocation{}, err
	}

	inv := gearbox.NewInvocation(sub)
	params := args[1:]
	switch sub {
	case gearbox.Create:
		if len(params) == 0 {
			return inv, errors.New("create requires a NAME")
		}
		inv.Argument = params[0]
		params = params[1:]
	case gearbox.Upgrade, gearbox.Downgrade:
		if len(params) > 0 {
			inv.Argument = params[0]
			params = params[1:]
		}
	}
	if len(params) > 0 {
		return inv, errors.Errorf("unrecognized arguments: %s", strings.Join(params, " "))
	}

	return inv, nil
}
