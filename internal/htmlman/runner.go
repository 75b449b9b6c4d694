package htmlman

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/marktsuchida/ssstrdoc/internal/lint"
	"github.com/marktsuchida/ssstrdoc/internal/process"
)

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner implements CommandRunner using os/exec. The command runs in
// its own process group, which is killed when ctx is done.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- groff path comes from the command line
	process.Configure(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// GroffArgs are the arguments passed to groff before the page path. -c
// keeps overstrike output even where groff would default to SGR escapes.
var GroffArgs = []string{"-Tutf8", "-c", "-man"}

// Typeset runs groff on a page and returns its terminal rendering.
func Typeset(ctx context.Context, runner CommandRunner, groff, src string) (string, error) {
	args := append(append([]string{}, GroffArgs...), src)
	stdout, stderr, err := runner.Run(ctx, groff, args...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		rule := "groff failed"
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			rule = fmt.Sprintf("groff failed: %s", msg)
		}
		return "", &lint.Error{Kind: lint.KindExternal, Path: src, Rule: rule, Err: err}
	}
	return string(stdout), nil
}
