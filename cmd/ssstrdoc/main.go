package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/marktsuchida/ssstrdoc/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Configure GOMAXPROCS with conditional logging.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	if slices.Contains(os.Args, "-v") || slices.Contains(os.Args, "--verbose") {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain dispatches args[1] to its command and returns the exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}
	warnUnknownEnvVars(env.Stderr)

	name, rest := args[1], args[2:]
	var err error
	switch name {
	case "checkman":
		err = runCheckMan(ctx, rest, env)
	case "checkreadme":
		err = runCheckReadme(ctx, rest, env)
	case "checkversion":
		err = runCheckVersion(rest, env)
	case "htmlman":
		err = runHTMLMan(ctx, rest, env)
	case "config":
		err = runConfig(rest, env)
	case "doctor":
		return runDoctorCmd(ctx, rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "ssstrdoc %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		err = runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", name)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		if c, ok := lookupCommand(name); ok {
			printCommandUsage(env.Stdout, c)
		}
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "ssstrdoc %s: %v%s\n", name, err, hints.For(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}
