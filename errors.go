package ssstrdoc

import "errors"

// Sentinel errors for library operations.
var (
	ErrNoHeader   = errors.New("header path cannot be empty")
	ErrNoPages    = errors.New("no man pages given")
	ErrNoReadme   = errors.New("README path cannot be empty")
	ErrNoOutput   = errors.New("output path cannot be empty")
	ErrNoVersion  = errors.New("version cannot be empty")
	ErrNoIntro    = errors.New("no introduction page")
	ErrReadReadme = errors.New("failed to read README")
)
