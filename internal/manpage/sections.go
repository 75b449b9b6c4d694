package manpage

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/marktsuchida/ssstrdoc/internal/lint"
	"github.com/marktsuchida/ssstrdoc/internal/roff"
)

// Section headings.
const (
	SectionName        = "NAME"
	SectionSynopsis    = "SYNOPSIS"
	SectionDescription = "DESCRIPTION"
	SectionReturnValue = "RETURN VALUE"
	SectionErrors      = "ERRORS"
	SectionNotes       = "NOTES"
	SectionBugs        = "BUGS"
	SectionExamples    = "EXAMPLES"
	SectionSeeAlso     = "SEE ALSO"
	SectionFunctions   = "FUNCTIONS"
)

const nameSeparator = ` \- `

// Reference is one SEE ALSO entry.
type Reference struct {
	Name    string
	Section string
}

func (r Reference) String() string {
	return r.Name + "(" + r.Section + ")"
}

func violation(section, content, format string, args ...any) *lint.Error {
	return lint.Formatf(content, section+": "+format, args...)
}

// CheckName validates NAME and returns the documented names and the brief
// description. The first name must equal the primary name of the page.
func CheckName(lines []string, id roff.Ident, conv Conventions) ([]string, string, error) {
	stripped := make([]string, len(lines))
	for i, l := range lines {
		stripped[i] = strings.TrimSpace(l)
	}
	oneline := strings.Join(stripped, " ")

	parts := strings.Split(oneline, nameSeparator)
	if len(parts) != 2 {
		return nil, "", violation(SectionName, oneline, "must contain %q exactly once", nameSeparator)
	}

	names := strings.Split(parts[0], ", ")
	for _, name := range names {
		if name == "" || strings.ContainsAny(name, " ,") {
			return nil, "", violation(SectionName, name, "malformed name")
		}
		if id.Section == conv.FuncSection && !strings.HasPrefix(name, conv.Prefix) {
			return nil, "", violation(SectionName, name, "name must start with %q", conv.Prefix)
		}
	}
	if names[0] != id.Name {
		return nil, "", violation(SectionName, names[0], "first name must be %q", id.Name)
	}
	return names, parts[1], nil
}

// CheckSynopsis validates SYNOPSIS and returns the reconstructed prototypes,
// whitespace-collapsed and in order of appearance.
func CheckSynopsis(lines []string, conv Conventions) ([]string, error) {
	lines = rstripAll(lines)
	if len(lines) < 4 {
		return nil, violation(SectionSynopsis, "", "too short for the .nf/include/.PP/.fi envelope")
	}
	envelope := []struct{ got, want string }{
		{lines[0], ".nf"},
		{lines[len(lines)-1], ".fi"},
		{lines[1], conv.Include},
		{lines[2], ".PP"},
	}
	for _, e := range envelope {
		if e.got != e.want {
			return nil, violation(SectionSynopsis, e.got, "expected %q", e.want)
		}
	}

	var prototypes []string
	for _, line := range lines[3 : len(lines)-1] {
		if line == ".PP" {
			continue
		}
		frag, ok := strings.CutPrefix(line, ".BI ")
		if !ok {
			return nil, violation(SectionSynopsis, line, "expected .BI or .PP")
		}
		if conv.SkipToken != "" && strings.Contains(frag, conv.SkipToken) {
			continue
		}
		text, err := joinFragments(frag)
		if err != nil {
			return nil, violation(SectionSynopsis, line, "%v", err)
		}
		if strings.HasPrefix(text, " ") {
			if len(prototypes) == 0 || !strings.HasSuffix(prototypes[len(prototypes)-1], ",") {
				return nil, violation(SectionSynopsis, line, "continuation must follow a prototype ending in ','")
			}
			last := len(prototypes) - 1
			prototypes[last] = prototypes[last] + " " + strings.TrimSpace(text)
			continue
		}
		prototypes = append(prototypes, text)
	}

	for i, p := range prototypes {
		p = strings.Join(strings.Fields(p), " ")
		if !strings.HasSuffix(p, ";") {
			return nil, violation(SectionSynopsis, p, "prototype must end with ';'")
		}
		prototypes[i] = p
	}
	return prototypes, nil
}

// joinFragments concatenates the alternating quoted and bare tokens of a .BI
// line with their quotes removed.
func joinFragments(frag string) (string, error) {
	tokens, err := roff.SplitFields(frag)
	if err != nil {
		return "", err
	}
	if len(tokens)%2 != 1 {
		return "", fmt.Errorf("expected an odd number of tokens, got %d", len(tokens))
	}
	var b strings.Builder
	for i, tok := range tokens {
		if i%2 == 0 && !roff.IsQuoted(tok) {
			return "", fmt.Errorf("token %d must be quoted: %s", i+1, tok)
		}
		if i%2 == 1 && strings.Contains(tok, `"`) {
			return "", fmt.Errorf("token %d must not be quoted: %s", i+1, tok)
		}
		b.WriteString(strings.Trim(tok, `"`))
	}
	return b.String(), nil
}

// ProtoName returns the function name declared by a prototype: the text
// before '(' in the first word containing one, with leading '*' removed.
func ProtoName(proto string) (string, bool) {
	for _, word := range strings.Fields(proto) {
		if before, _, found := strings.Cut(word, "("); found {
			return strings.TrimLeft(before, "*"), true
		}
	}
	return "", false
}

func protoNames(prototypes []string) ([]string, error) {
	names := make([]string, 0, len(prototypes))
	for _, p := range prototypes {
		name, ok := ProtoName(p)
		if !ok {
			return nil, violation(SectionSynopsis, p, "cannot find function name")
		}
		names = append(names, name)
	}
	return names, nil
}

// IsVoid reports whether a prototype returns nothing. Pointer-to-void
// returns count as values.
func IsVoid(proto string) bool {
	return strings.HasPrefix(proto, "void ") && !strings.HasPrefix(proto, "void *")
}

// CheckReturnValue requires RETURN VALUE to be present exactly when some
// prototype returns a value, and to be non-empty when present.
func CheckReturnValue(lines []string, present bool, prototypes []string) error {
	nonVoid := 0
	for _, p := range prototypes {
		if !IsVoid(p) {
			nonVoid++
		}
	}
	if present != (nonVoid > 0) {
		return violation(SectionReturnValue, "",
			"page has %d non-void functions, mismatched with presence of RETURN VALUE section", nonVoid)
	}
	if present && len(lines) == 0 {
		return violation(SectionReturnValue, "", "must not be empty")
	}
	return nil
}

// CheckExamples extracts the example snippets fenced by .nf/.EX and .EE/.fi.
// At least one snippet is required.
func CheckExamples(lines []string) ([]string, error) {
	if len(lines) == 0 {
		return nil, violation(SectionExamples, "", "must not be empty")
	}
	lines = rstripAll(lines)

	var snippets []string
	for {
		ex := slices.Index(lines, ".EX")
		if ex < 0 {
			break
		}
		if ex == 0 || lines[ex-1] != ".nf" {
			return nil, violation(SectionExamples, ".EX", "must be preceded by .nf")
		}
		ee := slices.Index(lines[ex+1:], ".EE")
		if ee < 0 {
			return nil, violation(SectionExamples, ".EX", "missing .EE")
		}
		ee += ex + 1
		if ee+1 >= len(lines) || lines[ee+1] != ".fi" {
			return nil, violation(SectionExamples, ".EE", "must be followed by .fi")
		}

		var b strings.Builder
		for _, l := range lines[ex+1 : ee] {
			b.WriteString(l)
			b.WriteByte('\n')
		}
		snippet, err := roff.UnescapeExample(b.String())
		if err != nil {
			return nil, &lint.Error{Kind: lint.KindFormat, Rule: SectionExamples + ": bad escape", Content: b.String(), Err: err}
		}
		snippets = append(snippets, snippet)
		lines = lines[ee+1:]
	}
	if len(snippets) == 0 {
		return nil, violation(SectionExamples, "", "must contain at least one .EX block")
	}
	return snippets, nil
}

// CheckSeeAlso parses the SEE ALSO references. When final is non-nil the
// last entry must equal it and is exempt from the (section, name) ordering
// that every other entry must follow.
func CheckSeeAlso(lines []string, final *Reference) ([]Reference, error) {
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		item, ok := strings.CutPrefix(line, ".BR ")
		if !ok {
			return nil, violation(SectionSeeAlso, line, "expected .BR")
		}
		items = append(items, strings.TrimRightFunc(item, unicode.IsSpace))
	}
	if len(items) == 0 {
		return nil, violation(SectionSeeAlso, "", "must not be empty")
	}
	if last := items[len(items)-1]; !strings.HasSuffix(last, ")") {
		return nil, violation(SectionSeeAlso, last, "last item must end with ')'")
	}
	for _, item := range items[:len(items)-1] {
		if !strings.HasSuffix(item, ",") {
			return nil, violation(SectionSeeAlso, item, "non-last item must end with ','")
		}
	}

	refs := make([]Reference, 0, len(items))
	for _, item := range items {
		item = strings.TrimRight(item, ",")
		fields := strings.Fields(item)
		if len(fields) != 2 {
			return nil, violation(SectionSeeAlso, item, "expected name and (section)")
		}
		sect, ok := strings.CutPrefix(fields[1], "(")
		if ok {
			sect, ok = strings.CutSuffix(sect, ")")
		}
		if !ok || len(sect) != 1 || sect[0] < '1' || sect[0] > '8' {
			return nil, violation(SectionSeeAlso, item, "section must be (1) through (8)")
		}
		refs = append(refs, Reference{Name: fields[0], Section: sect})
	}

	sortable := refs
	if final != nil {
		if refs[len(refs)-1] != *final {
			return nil, &lint.Error{
				Kind:    lint.KindCrossRef,
				Rule:    fmt.Sprintf("%s: last item must be %s", SectionSeeAlso, final),
				Content: refs[len(refs)-1].String(),
			}
		}
		sortable = refs[:len(refs)-1]
	}
	if !slices.IsSortedFunc(sortable, compareRefs) {
		want := slices.SortedFunc(slices.Values(sortable), compareRefs)
		return nil, &lint.Error{
			Kind:    lint.KindCrossRef,
			Rule:    fmt.Sprintf("%s: items must be sorted by (section, name) as %s", SectionSeeAlso, formatRefs(want)),
			Content: formatRefs(sortable),
		}
	}
	return refs, nil
}

func compareRefs(a, b Reference) int {
	if c := strings.Compare(a.Section, b.Section); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}

func formatRefs(refs []Reference) string {
	s := make([]string, len(refs))
	for i, r := range refs {
		s[i] = r.String()
	}
	return strings.Join(s, ", ")
}

func rstripAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimRightFunc(l, unicode.IsSpace)
	}
	return out
}
