package main

import (
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/marktsuchida/ssstrdoc"
	"github.com/marktsuchida/ssstrdoc/internal/assets"
	"github.com/marktsuchida/ssstrdoc/internal/config"
	"github.com/marktsuchida/ssstrdoc/internal/fileutil"
	"github.com/marktsuchida/ssstrdoc/internal/htmlman"
	"github.com/marktsuchida/ssstrdoc/internal/lint"
)

// Exit codes for the ssstrdoc CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // All checks passed
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid arguments, flags or config
	ExitIO         = 3 // File not found, permission denied
	ExitValidation = 4 // Pages, header, tests or README disagree
	ExitExternal   = 5 // groff missing, failing or too slow
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// External renderer (exit 5)
	if errors.Is(err, lint.ErrExternal) ||
		errors.Is(err, exec.ErrNotFound) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ExitExternal
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ssstrdoc.ErrReadReadme) ||
		errors.Is(err, assets.ErrAssetRead) {
		return ExitIO
	}

	// Validation failures (exit 4)
	if errors.Is(err, lint.ErrFormat) ||
		errors.Is(err, lint.ErrCrossRef) ||
		errors.Is(err, lint.ErrConsistency) ||
		errors.Is(err, ssstrdoc.ErrNoIntro) {
		return ExitValidation
	}

	// Usage/config errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrFieldRequired) ||
		errors.Is(err, config.ErrFieldRange) ||
		errors.Is(err, ssstrdoc.ErrNoHeader) ||
		errors.Is(err, ssstrdoc.ErrNoPages) ||
		errors.Is(err, ssstrdoc.ErrNoReadme) ||
		errors.Is(err, ssstrdoc.ErrNoOutput) ||
		errors.Is(err, ssstrdoc.ErrNoVersion) ||
		errors.Is(err, htmlman.ErrNoPages) ||
		errors.Is(err, htmlman.ErrNoGroff) ||
		errors.Is(err, fileutil.ErrEmptyDir) ||
		errors.Is(err, fileutil.ErrInvalidManName) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrTemplateNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) {
		return ExitUsage
	}

	return ExitGeneral
}
