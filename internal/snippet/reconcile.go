package snippet

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/marktsuchida/ssstrdoc/internal/lint"
)

// Documented is an example snippet taken from a man page.
type Documented struct {
	Path string
	Text string
}

// Miss is a documented snippet without a matching test.
type Miss struct {
	Path       string
	Normalized string
	Closest    []string // normalized candidates, best first
}

// Result lists the documented snippets that no test matched.
type Result struct {
	Misses []Miss
}

// Reconcile matches every documented snippet against the candidates by
// checksum and records the closest candidates for each miss.
func (o Options) Reconcile(docs []Documented, candidates []Candidate) Result {
	sums := make(map[Sum]struct{}, len(candidates))
	var normalized []string
	for _, c := range candidates {
		sum := o.Checksum(c.Text)
		if _, dup := sums[sum]; dup {
			continue
		}
		sums[sum] = struct{}{}
		normalized = append(normalized, o.Normalize(c.Text))
	}

	var r Result
	for _, d := range docs {
		if _, ok := sums[o.Checksum(d.Text)]; ok {
			continue
		}
		norm := o.Normalize(d.Text)
		r.Misses = append(r.Misses, Miss{
			Path:       d.Path,
			Normalized: norm,
			Closest:    CloseMatches(norm, normalized, o.MaxMatches, o.Cutoff),
		})
	}
	return r
}

// Write prints each miss with its closest candidates.
func (r Result) Write(w io.Writer) error {
	for _, m := range r.Misses {
		if _, err := fmt.Fprintf(w, "Snippet in %s (normalized):\n%s\n", m.Path, m.Normalized); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, "Most similar snippet(s) in tests (normalized):"); err != nil {
			return err
		}
		for _, c := range m.Closest {
			if _, err := fmt.Fprintln(w, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// Err returns one consistency violation per miss, or nil.
func (r Result) Err() error {
	var v lint.Violations
	for _, m := range r.Misses {
		v.Add(&lint.Error{
			Kind: lint.KindConsistency,
			Path: m.Path,
			Rule: "snippet must match test",
		})
	}
	return v.Err()
}

// CloseMatches returns up to n possibilities whose similarity ratio to word
// is at least cutoff, best first. Ties are ordered by descending text.
func CloseMatches(word string, possibilities []string, n int, cutoff float64) []string {
	if n <= 0 {
		return nil
	}
	type scored struct {
		ratio float64
		text  string
	}
	m := difflib.NewMatcher(nil, runes(word))
	var found []scored
	for _, p := range possibilities {
		m.SetSeq1(runes(p))
		if m.RealQuickRatio() >= cutoff && m.QuickRatio() >= cutoff {
			if r := m.Ratio(); r >= cutoff {
				found = append(found, scored{r, p})
			}
		}
	}
	slices.SortFunc(found, func(a, b scored) int {
		if c := cmp.Compare(b.ratio, a.ratio); c != 0 {
			return c
		}
		return cmp.Compare(b.text, a.text)
	})
	if len(found) > n {
		found = found[:n]
	}
	out := make([]string, len(found))
	for i, f := range found {
		out[i] = f.text
	}
	return out
}

// runes splits s into one-character strings, the sequence unit the
// matcher compares.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
