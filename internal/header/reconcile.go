package header

import (
	"fmt"
	"io"
	"strings"

	"github.com/marktsuchida/ssstrdoc/internal/lint"
	"github.com/marktsuchida/ssstrdoc/internal/manpage"
)

// Gap is one direction of a set difference.
type Gap struct {
	Label string // e.g. "prototypes not in man pages"
	Items []string
}

// Report is the two-way difference between the header and the manual.
type Report struct {
	Gaps []Gap
}

// Reconcile compares header prototypes with those documented in man pages.
func Reconcile(header, man Set) Report {
	return Report{Gaps: []Gap{
		{Label: "prototypes not in man pages", Items: header.Minus(man)},
		{Label: "prototypes in man pages but not in header", Items: man.Minus(header)},
	}}
}

// ReconcileListing compares the functions declared in the header with the
// FUNCTIONS listing of the introduction page, named by introFile.
func ReconcileListing(header Set, listed []string, introFile string) (Report, error) {
	funcs := make(Set, len(header))
	for proto := range header {
		name, ok := manpage.ProtoName(proto)
		if !ok {
			return Report{}, &lint.Error{Kind: lint.KindFormat, Rule: "failed to parse prototype", Content: proto}
		}
		funcs[name] = struct{}{}
	}
	intro := NewSet(listed...)
	return Report{Gaps: []Gap{
		{Label: "functions not in " + introFile, Items: funcs.Minus(intro)},
		{Label: "functions in " + introFile + " but not in header", Items: intro.Minus(funcs)},
	}}, nil
}

// OK reports whether both sets matched.
func (r Report) OK() bool {
	for _, g := range r.Gaps {
		if len(g.Items) > 0 {
			return false
		}
	}
	return true
}

// Write prints every non-empty gap as a count line followed by its items.
func (r Report) Write(w io.Writer) error {
	for _, g := range r.Gaps {
		if len(g.Items) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%d %s:\n", len(g.Items), g.Label); err != nil {
			return err
		}
		for _, it := range g.Items {
			if _, err := fmt.Fprintln(w, it); err != nil {
				return err
			}
		}
	}
	return nil
}

// Err returns a consistency violation summarizing the gaps, or nil.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	var parts []string
	for _, g := range r.Gaps {
		if len(g.Items) > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", len(g.Items), g.Label))
		}
	}
	return &lint.Error{Kind: lint.KindConsistency, Rule: strings.Join(parts, "; ")}
}
