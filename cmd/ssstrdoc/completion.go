package main

import (
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --config
	Short    string   // -c (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	FilePattern string // glob for file arguments; empty when none
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	FileGlob string
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"config":     {FileGlob: "*.yaml,*.yml"},
	"readme":     {FileGlob: "*.md"},
	"groff":      {FileGlob: "*"},
	"asset-path": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			if meta.FileGlob != "" {
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			} else if meta.IsDir {
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets.
func getCommands() []commandDef {
	defs := make([]commandDef, 0, len(commands))
	for _, c := range commands {
		d := commandDef{Name: c.name, Desc: c.summary, FilePattern: c.argGlobs}
		if c.flags != nil {
			d.Flags = extractFlagsFromFlagSet(c.flags())
		}
		defs = append(defs, d)
	}
	return defs
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for ssstrdoc\n")
	b.WriteString("_ssstrdoc_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", commandNames(cmds))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    case \"${prev}\" in\n")
	seen := make(map[string]bool)
	for _, c := range cmds {
		for _, f := range c.Flags {
			if seen[f.Long] {
				continue
			}
			seen[f.Long] = true
			switch f.Type {
			case flagFile:
				fmt.Fprintf(&b, "        --%s) COMPREPLY=($(compgen -f -- \"${cur}\")); return ;;\n", f.Long)
			case flagDir:
				fmt.Fprintf(&b, "        --%s) COMPREPLY=($(compgen -d -- \"${cur}\")); return ;;\n", f.Long)
			}
		}
	}
	b.WriteString("    esac\n\n")

	b.WriteString("    case \"${cmd}\" in\n")
	for _, c := range cmds {
		var words []string
		for _, f := range c.Flags {
			words = append(words, "--"+f.Long)
			if f.Short != "" {
				words = append(words, "-"+f.Short)
			}
		}
		if c.Name == "completion" {
			words = append(words, string(ShellBash), string(ShellZsh), string(ShellFish))
		}
		if c.Name == "help" {
			words = append(words, commandNames(cmds))
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		if c.FilePattern != "" {
			b.WriteString("            if [[ ${cur} != -* ]]; then\n")
			b.WriteString("                COMPREPLY=($(compgen -f -- \"${cur}\"))\n")
			b.WriteString("                return\n")
			b.WriteString("            fi\n")
		}
		fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", strings.Join(words, " "))
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -F _ssstrdoc_completions ssstrdoc\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// zshEscape escapes text for use inside a single-quoted zsh spec.
func zshEscape(s string) string {
	r := strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")
	return r.Replace(s)
}

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("#compdef ssstrdoc\n\n")
	b.WriteString("_ssstrdoc() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case ${words[2]} in\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		b.WriteString("            _arguments \\\n")
		for _, f := range c.Flags {
			action := ""
			switch f.Type {
			case flagFile:
				action = ":file:_files"
				if f.FileGlob != "*" {
					action = fmt.Sprintf(`:file:_files -g "(%s)"`, strings.ReplaceAll(f.FileGlob, ",", "|"))
				}
			case flagDir:
				action = ":directory:_directories"
			case flagString, flagInt:
				action = ":value:"
			}
			spec := fmt.Sprintf("--%s[%s]%s", f.Long, zshEscape(f.Desc), action)
			if f.Short != "" {
				spec = fmt.Sprintf("(-%s --%s)'{-%s,--%s}'[%s]%s", f.Short, f.Long, f.Short, f.Long, zshEscape(f.Desc), action)
			}
			fmt.Fprintf(&b, "                '%s' \\\n", spec)
		}
		switch {
		case c.Name == "completion":
			b.WriteString("                '1:shell:(bash zsh fish)'\n")
		case c.Name == "help":
			fmt.Fprintf(&b, "                '1:command:(%s)'\n", commandNames(cmds))
		case c.FilePattern != "":
			b.WriteString("                '*:file:_files'\n")
		default:
			b.WriteString("                '*: :'\n")
		}
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _ssstrdoc ssstrdoc\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# fish completion for ssstrdoc\n")
	b.WriteString("complete -c ssstrdoc -f\n\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c ssstrdoc -n '__fish_use_subcommand' -a %s -d '%s'\n",
			c.Name, strings.ReplaceAll(c.Desc, "'", "\\'"))
	}
	b.WriteString("\n")
	for _, c := range cmds {
		cond := fmt.Sprintf("__fish_seen_subcommand_from %s", c.Name)
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c ssstrdoc -n '%s' -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -r -a '(__fish_complete_directories)'"
			case flagString, flagInt:
				line += " -r"
			}
			line += fmt.Sprintf(" -d '%s'", strings.ReplaceAll(f.Desc, "'", "\\'"))
			b.WriteString(line + "\n")
		}
		switch {
		case c.Name == "completion":
			fmt.Fprintf(&b, "complete -c ssstrdoc -n '%s' -a 'bash zsh fish'\n", cond)
		case c.Name == "help":
			fmt.Fprintf(&b, "complete -c ssstrdoc -n '%s' -a '%s'\n", cond, commandNames(cmds))
		case c.FilePattern != "":
			fmt.Fprintf(&b, "complete -c ssstrdoc -n '%s' -F\n", cond)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ssstrdoc completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(ssstrdoc completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(ssstrdoc completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    ssstrdoc completion fish > ~/.config/fish/completions/ssstrdoc.fish")
}
