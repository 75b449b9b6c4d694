package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/marktsuchida/ssstrdoc/internal/fileutil"
	"github.com/marktsuchida/ssstrdoc/internal/htmlman"
)

// doctorTimeout bounds each groff run made by doctor.
const doctorTimeout = 10 * time.Second

// smokePage is typeset to confirm groff emits overstrike output.
const smokePage = `.TH SMOKE 7 2024-01-01 SSSTRDOC "Doctor"
.SH NAME
smoke \- doctor probe
`

type level string

const (
	levelOK    level = "ok"
	levelWarn  level = "warning"
	levelError level = "error"
)

var levelTags = map[level]string{levelOK: "[OK]", levelWarn: "[WARN]", levelError: "[ERROR]"}

// Report sections, in print order.
const (
	sectionGroff       = "groff"
	sectionEnvironment = "Environment"
	sectionSystem      = "System"
)

type finding struct {
	Section string `json:"section"`
	Level   level  `json:"level"`
	Message string `json:"message"`
}

type groffInfo struct {
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// doctorReport is printed as text or, with --json, encoded as is.
type doctorReport struct {
	Status    string    `json:"status"` // "ready", "warnings", "errors"
	Platform  string    `json:"platform"`
	Container string    `json:"container,omitempty"` // the signal that detected one
	CI        bool      `json:"ci"`
	Groff     groffInfo `json:"groff"`
	Findings  []finding `json:"findings"`
}

func (r *doctorReport) add(section string, lv level, format string, args ...any) {
	r.Findings = append(r.Findings, finding{Section: section, Level: lv, Message: fmt.Sprintf(format, args...)})
}

// settle derives Status from the worst finding.
func (r *doctorReport) settle() {
	r.Status = "ready"
	for _, f := range r.Findings {
		switch f.Level {
		case levelError:
			r.Status = "errors"
			return
		case levelWarn:
			r.Status = "warnings"
		}
	}
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	var f doctorFlags
	fs := buildDoctorFlagSet(&f)
	if _, err := parseArgs(fs, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c, _ := lookupCommand("doctor")
			printCommandUsage(env.Stdout, c)
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "ssstrdoc doctor: %v\n", err)
		return ExitUsage
	}

	r := runDoctor(ctx, env, f.groff)
	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(r)
	} else {
		printDoctorReport(env.Stdout, r)
	}

	if r.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

func runDoctor(ctx context.Context, env *Environment, groff string) *doctorReport {
	r := &doctorReport{Platform: runtime.GOOS + "/" + runtime.GOARCH}

	tmp, err := os.MkdirTemp("", "ssstrdoc-doctor-*")
	if err != nil {
		r.add(sectionSystem, levelError, "Temp directory not writable: %v", err)
	} else {
		defer func() { _ = os.RemoveAll(tmp) }()
		r.add(sectionSystem, levelOK, "Temp directory: writable")
	}

	checkGroff(ctx, env, groff, tmp, r)
	checkEnvironment(r)
	r.settle()
	return r
}

// checkGroff locates groff, asks for its version and, given a scratch
// directory, typesets a small page the way htmlman does.
func checkGroff(ctx context.Context, env *Environment, groff, scratch string, r *doctorReport) {
	path, err := resolveGroff(env, groff)
	if err != nil {
		r.add(sectionGroff, levelError, "Not found: %s (install groff or pass --groff)", groff)
		return
	}
	r.Groff.Path = path
	r.add(sectionGroff, levelOK, "Found at %s", path)

	runner := env.runner()
	vctx, cancel := context.WithTimeout(ctx, doctorTimeout)
	stdout, _, err := runner.Run(vctx, path, "--version")
	cancel()
	if err != nil {
		r.add(sectionGroff, levelWarn, "Could not get version: %v", err)
	} else {
		first, _, _ := strings.Cut(string(stdout), "\n")
		r.Groff.Version = strings.TrimSpace(first)
		r.add(sectionGroff, levelOK, "Version: %s", r.Groff.Version)
	}

	if scratch == "" {
		return
	}
	src := filepath.Join(scratch, "smoke.7")
	if err := fileutil.WriteFile(src, smokePage); err != nil {
		r.add(sectionSystem, levelError, "Cannot write probe page: %v", err)
		return
	}
	tctx, cancel := context.WithTimeout(ctx, doctorTimeout)
	defer cancel()
	out, err := htmlman.Typeset(tctx, runner, path, src)
	if err != nil {
		r.add(sectionGroff, levelError, "Typesetting failed: %v", err)
		return
	}
	html, err := htmlman.OverprintToHTML(out)
	switch {
	case err != nil:
		r.add(sectionGroff, levelError, "Unreadable output: %v", err)
	case !strings.Contains(html, "<b>"):
		r.add(sectionGroff, levelWarn, "Output has no overstrike bold; pages will render without emphasis")
	default:
		r.add(sectionGroff, levelOK, "Overstrike output: bold detected")
	}
}

func checkEnvironment(r *doctorReport) {
	r.add(sectionEnvironment, levelOK, "Platform: %s", r.Platform)

	if ok, signal := isContainer(); ok {
		r.Container = signal
		r.add(sectionEnvironment, levelOK, "Container: detected (%s)", signal)
	}
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(v) != "" {
			r.CI = true
			r.add(sectionEnvironment, levelOK, "CI: detected (%s)", v)
			break
		}
	}
}

// isContainer reports whether we run in a container, and the signal that
// said so.
func isContainer() (bool, string) {
	if os.Getenv("SSSTRDOC_CONTAINER") == "1" {
		return true, "SSSTRDOC_CONTAINER=1"
	}
	if fileutil.FileExists("/.dockerenv") {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

func printDoctorReport(w io.Writer, r *doctorReport) {
	fmt.Fprintln(w, "ssstrdoc doctor")
	for _, section := range []string{sectionGroff, sectionEnvironment, sectionSystem} {
		fmt.Fprintf(w, "\n%s\n", section)
		for _, f := range r.Findings {
			if f.Section == section {
				fmt.Fprintf(w, "  %s %s\n", levelTags[f.Level], f.Message)
			}
		}
	}
	fmt.Fprintln(w)

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
