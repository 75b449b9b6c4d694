package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks malformed command lines.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// htmlFlags holds flags for the htmlman command.
type htmlFlags struct {
	common         commonFlags
	workers        int
	timeout        string
	readme         string
	assetPath      string
	highlightStyle string
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	json  bool
	groff string
}

// newFlagSet returns a silent FlagSet; errors and help are reported by runMain.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "trace each stage on stderr")
}

// buildCheckFlagSet creates the FlagSet of the check commands.
func buildCheckFlagSet(name string, f *commonFlags) *flag.FlagSet {
	fs := newFlagSet(name)
	addCommonFlags(fs, f)
	return fs
}

// buildHTMLFlagSet creates the FlagSet of the htmlman command.
func buildHTMLFlagSet(f *htmlFlags) *flag.FlagSet {
	fs := newFlagSet("htmlman")
	addCommonFlags(fs, &f.common)
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel groff runs (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-page groff timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.readme, "readme", "", "README.md to render as readme.html")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding the embedded templates and styles")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "chroma style for README code blocks")
	return fs
}

// buildDoctorFlagSet creates the FlagSet of the doctor command.
func buildDoctorFlagSet(f *doctorFlags) *flag.FlagSet {
	fs := newFlagSet("doctor")
	fs.BoolVar(&f.json, "json", false, "print the report as JSON")
	fs.StringVar(&f.groff, "groff", "groff", "groff executable to check")
	return fs
}

// parseArgs parses args into fs and returns the positional arguments.
// Parse failures are reported as usage errors; -h/--help passes through.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return fs.Args(), nil
}

// usageError reports a missing or surplus argument.
func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}
