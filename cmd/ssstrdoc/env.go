package main

import (
	"io"
	"os"
	"os/exec"

	"github.com/marktsuchida/ssstrdoc/internal/htmlman"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer
	// Runner invokes groff; nil runs the real executable.
	Runner htmlman.CommandRunner
	// LookPath resolves a bare groff name against PATH.
	LookPath func(file string) (string, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		LookPath: exec.LookPath,
	}
}

func (e *Environment) runner() htmlman.CommandRunner {
	if e.Runner != nil {
		return e.Runner
	}
	return &htmlman.ExecRunner{}
}

func (e *Environment) lookPath(file string) (string, error) {
	if e.LookPath != nil {
		return e.LookPath(file)
	}
	return exec.LookPath(file)
}
