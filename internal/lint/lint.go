// Package lint defines the structured validation error shared by every
// checking stage.
//
// A validation failure carries its Kind, the file it concerns, the rule that
// was violated and the offending content. Errors unwrap to one sentinel per
// Kind so callers can classify them with errors.Is. Stages that report in
// aggregate return a Violations value holding every failure found.
package lint

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, one per Kind.
var (
	ErrFormat      = errors.New("format violation")
	ErrCrossRef    = errors.New("cross-reference violation")
	ErrConsistency = errors.New("consistency violation")
	ErrExternal    = errors.New("external tool failure")
)

// Kind classifies a validation failure.
type Kind int

const (
	// KindFormat covers malformed directives and missing or misordered sections.
	KindFormat Kind = iota
	// KindCrossRef covers missing redirects, unsorted references and unresolved targets.
	KindCrossRef
	// KindConsistency covers date mismatches, duplicate names and set mismatches.
	KindConsistency
	// KindExternal covers failures of external tools.
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindFormat:
		return "format"
	case KindCrossRef:
		return "cross-reference"
	case KindConsistency:
		return "consistency"
	case KindExternal:
		return "external"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindCrossRef:
		return ErrCrossRef
	case KindConsistency:
		return ErrConsistency
	case KindExternal:
		return ErrExternal
	default:
		return ErrFormat
	}
}

// Error is a single validation failure.
type Error struct {
	Kind    Kind
	Path    string // file the failure concerns; may be empty
	Rule    string // human-readable statement of the violated rule
	Content string // offending line or value; may be empty
	Err     error  // underlying cause; may be nil
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Rule)
	if e.Content != "" {
		fmt.Fprintf(&b, ": %q", e.Content)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the Kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind.sentinel(), e.Err}
	}
	return []error{e.Kind.sentinel()}
}

// Formatf returns a KindFormat error without a path.
func Formatf(content, format string, args ...any) *Error {
	return &Error{Kind: KindFormat, Rule: fmt.Sprintf(format, args...), Content: content}
}

// New returns an Error of the given kind.
func New(kind Kind, path, rule string) *Error {
	return &Error{Kind: kind, Path: path, Rule: rule}
}

// InFile attaches path to err. A *Error without a path gets it filled in;
// any other error is wrapped as a KindFormat failure.
func InFile(path string, err error) error {
	if err == nil {
		return nil
	}
	var le *Error
	if errors.As(err, &le) && le.Path == "" {
		cp := *le
		cp.Path = path
		return &cp
	}
	if le != nil {
		return err
	}
	return &Error{Kind: KindFormat, Path: path, Rule: "invalid page", Err: err}
}

// Violations aggregates failures found in one pass.
type Violations []*Error

// Add appends a failure.
func (v *Violations) Add(e *Error) {
	*v = append(*v, e)
}

// Err returns nil when no failures were recorded.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v Violations) Error() string {
	if len(v) == 1 {
		return v[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d violations:", len(v))
	for _, e := range v {
		b.WriteString("\n  ")
		b.WriteString(e.Error())
	}
	return b.String()
}

func (v Violations) Unwrap() []error {
	errs := make([]error, len(v))
	for i, e := range v {
		errs[i] = e
	}
	return errs
}
