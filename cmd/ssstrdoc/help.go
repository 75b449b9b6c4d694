package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// command describes a subcommand for help and completion.
type command struct {
	name     string
	args     string // synopsis after the command name
	summary  string
	detail   string
	flags    func() *flag.FlagSet // nil when the command takes no flags
	argGlobs string               // completion glob for positional arguments
}

// commands lists every subcommand in help order.
var commands = []command{
	{
		name:    "checkman",
		args:    "[flags] <header> <test-sources...> -- <man-pages...>",
		summary: "Validate man pages against the header and tests",
		detail: `Validates every page on its own, then stubs, SEE ALSO references and
dates across pages, then reconciles the header prototypes with the SYNOPSIS
prototypes and the introduction's FUNCTIONS listing, and finally requires
every EXAMPLES snippet to appear in one of the test sources.`,
		flags:    func() *flag.FlagSet { return buildCheckFlagSet("checkman", &commonFlags{}) },
		argGlobs: "*.h,*.c,*.cpp,*.[0-9]",
	},
	{
		name:    "checkreadme",
		args:    "[flags] <generated-test.c> <README.md> <man-pages...>",
		summary: "Extract README snippets and check function mentions",
		detail: `Writes a C test source holding one test case per README snippet
annotated with %TEST_SNIPPET, then requires the README to mention every
function that has a man page.`,
		flags:    func() *flag.FlagSet { return buildCheckFlagSet("checkreadme", &commonFlags{}) },
		argGlobs: "*.c,*.md,*.[0-9]",
	},
	{
		name:     "checkversion",
		args:     "[flags] <version> <headers...>",
		summary:  "Check the version banner of header files",
		detail:   `Requires every header to announce the version within its first lines.`,
		flags:    func() *flag.FlagSet { return buildCheckFlagSet("checkversion", &commonFlags{}) },
		argGlobs: "*.h",
	},
	{
		name:    "htmlman",
		args:    "[flags] <dest-dir> <groff> <man-pages...>",
		summary: "Generate the HTML edition of the manual",
		detail: `Replaces dest-dir with one HTML file per page, typeset by groff, with
cross-references turned into links. Pages under link<S>/ become redirects.`,
		flags:    func() *flag.FlagSet { return buildHTMLFlagSet(&htmlFlags{}) },
		argGlobs: "*.[0-9]",
	},
	{
		name:    "config",
		args:    "[flags]",
		summary: "Print the effective configuration as YAML",
		flags:   func() *flag.FlagSet { return buildCheckFlagSet("config", &commonFlags{}) },
	},
	{
		name:    "doctor",
		args:    "[flags]",
		summary: "Check groff and the environment",
		detail: `Locates groff, typesets a probe page and checks that its output
carries overstrike bold. Exits 1 when htmlman could not run.`,
		flags: func() *flag.FlagSet { return buildDoctorFlagSet(&doctorFlags{}) },
	},
	{
		name:    "completion",
		args:    "<bash|zsh|fish>",
		summary: "Generate shell completion script",
	},
	{
		name:    "version",
		summary: "Show version information",
	},
	{
		name:    "help",
		args:    "[command]",
		summary: "Show help for a command",
	},
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ssstrdoc <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-13s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'ssstrdoc help <command>' for details on a specific command.")
}

// printCommandUsage prints usage for one command.
func printCommandUsage(w io.Writer, c command) {
	if c.args == "" {
		fmt.Fprintf(w, "Usage: ssstrdoc %s\n", c.name)
	} else {
		fmt.Fprintf(w, "Usage: ssstrdoc %s %s\n", c.name, c.args)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s.\n", c.summary)
	if c.detail != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, c.detail)
	}
	if c.flags != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Flags:")
		fmt.Fprint(w, c.flags().FlagUsages())
	}
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}
	c, ok := lookupCommand(args[0])
	if !ok {
		printUsage(env.Stderr)
		return usageError("unknown command %q", args[0])
	}
	printCommandUsage(env.Stdout, c)
	return nil
}
