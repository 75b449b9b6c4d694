package readme

import (
	"fmt"
	"io"
	"regexp"
	"slices"

	"github.com/marktsuchida/ssstrdoc/internal/fileutil"
	"github.com/marktsuchida/ssstrdoc/internal/lint"
)

// FunctionPages returns the names of the man pages in section funcSection,
// in the order given.
func FunctionPages(paths []string, funcSection string) ([]string, error) {
	var names []string
	for _, p := range paths {
		name, section, err := fileutil.SplitManName(p)
		if err != nil {
			return nil, err
		}
		if section == funcSection {
			names = append(names, name)
		}
	}
	return names, nil
}

// Mentions returns the set of identifiers starting with prefix that appear
// immediately before an opening parenthesis.
func Mentions(src []byte, prefix string) map[string]struct{} {
	re := regexp.MustCompile(`(` + regexp.QuoteMeta(prefix) + `[_a-z0-9]+)\(`)
	found := make(map[string]struct{})
	for _, m := range re.FindAllSubmatch(src, -1) {
		found[string(m[1])] = struct{}{}
	}
	return found
}

// MentionReport lists the functions a document does not call out.
type MentionReport struct {
	Path        string
	Unmentioned []string // sorted
}

// CheckMentions reports the functions that src, read from path, never
// mentions as name(.
func CheckMentions(path string, src []byte, functions []string, prefix string) MentionReport {
	found := Mentions(src, prefix)
	r := MentionReport{Path: path}
	for _, f := range functions {
		if _, ok := found[f]; !ok {
			r.Unmentioned = append(r.Unmentioned, f)
		}
	}
	slices.Sort(r.Unmentioned)
	r.Unmentioned = slices.Compact(r.Unmentioned)
	return r
}

// Write prints the unmentioned functions, if any.
func (r MentionReport) Write(w io.Writer) error {
	if len(r.Unmentioned) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Functions not mentioned in %s:\n", r.Path); err != nil {
		return err
	}
	for _, f := range r.Unmentioned {
		if _, err := fmt.Fprintf(w, "%s()\n", f); err != nil {
			return err
		}
	}
	return nil
}

// Err returns a consistency violation when functions are unmentioned.
func (r MentionReport) Err() error {
	if len(r.Unmentioned) == 0 {
		return nil
	}
	return &lint.Error{
		Kind: lint.KindConsistency,
		Path: r.Path,
		Rule: fmt.Sprintf("%d functions not mentioned", len(r.Unmentioned)),
	}
}
