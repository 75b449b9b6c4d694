package manpage

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/marktsuchida/ssstrdoc/internal/lint"
	"github.com/marktsuchida/ssstrdoc/internal/roff"
)

// Connective lines of the FUNCTIONS listing grammar.
const (
	ConnectiveVariantsOf    = "and variants of"
	ConnectiveItsVariants   = "and its variants with"
	ConnectiveTheirVariants = "and their variants with"
)

// ListState is a state of the FUNCTIONS listing parser.
type ListState int

const (
	// ExpectName is the start state and the state after a ';' terminator.
	ExpectName ListState = iota
	// ExpectMoreNames follows a plain entry ending in ','.
	ExpectMoreNames
	// ExpectConnectiveOrEnd follows a plain entry without a trailing comma.
	ExpectConnectiveOrEnd
	// ExpectVariantBase follows "and variants of".
	ExpectVariantBase
	// ExpectWith follows the variant base name.
	ExpectWith
	// ExpectSuffix starts a suffix list.
	ExpectSuffix
	// ExpectSuffixOrOr follows a ".BR _sfx ," suffix.
	ExpectSuffixOrOr
	// ExpectOr follows a single ".B _sfx" suffix.
	ExpectOr
	// ExpectTerminator follows "or".
	ExpectTerminator
	// Done follows a final ".B _sfx"; nothing may follow.
	Done
)

var listStateNames = [...]string{
	ExpectName:            "ExpectName",
	ExpectMoreNames:       "ExpectMoreNames",
	ExpectConnectiveOrEnd: "ExpectConnectiveOrEnd",
	ExpectVariantBase:     "ExpectVariantBase",
	ExpectWith:            "ExpectWith",
	ExpectSuffix:          "ExpectSuffix",
	ExpectSuffixOrOr:      "ExpectSuffixOrOr",
	ExpectOr:              "ExpectOr",
	ExpectTerminator:      "ExpectTerminator",
	Done:                  "Done",
}

func (s ListState) String() string {
	if s >= 0 && int(s) < len(listStateNames) {
		return listStateNames[s]
	}
	return fmt.Sprintf("ListState(%d)", int(s))
}

// accepting reports whether a subsection may end in state s.
func (s ListState) accepting() bool {
	return s == ExpectName || s == ExpectConnectiveOrEnd || s == Done
}

// listParser consumes the lines of one FUNCTIONS subsection.
type listParser struct {
	conv     Conventions
	state    ListState
	plain    []string // plainly listed names since the last terminator
	bases    []string // names the pending suffixes apply to
	suffixes []string
	names    []string
}

// ParseFunctionGroup parses one FUNCTIONS subsection body and returns every
// function name it lists, with variant groups expanded.
func ParseFunctionGroup(lines []string, conv Conventions) ([]string, error) {
	if len(lines) == 0 {
		return nil, lint.Formatf("", "empty subsection")
	}
	p := &listParser{conv: conv}
	for _, line := range lines {
		if err := p.feed(line); err != nil {
			return nil, err
		}
	}
	if !p.state.accepting() {
		return nil, lint.Formatf(lines[len(lines)-1], "unexpected end of subsection in state %s", p.state)
	}
	return p.names, nil
}

// ParseFunctions parses the FUNCTIONS section of the introduction page and
// returns the sorted set of listed function names.
func ParseFunctions(lines []string, conv Conventions) ([]string, error) {
	groups, err := roff.SplitSections(lines, roff.RequestSubsection)
	if err != nil {
		return nil, prefixRule(SectionFunctions, err)
	}
	seen := make(map[string]struct{})
	var names []string
	for _, g := range groups {
		listed, err := ParseFunctionGroup(g.Lines, conv)
		if err != nil {
			return nil, prefixRule(SectionFunctions+" subsection "+g.Heading, err)
		}
		for _, n := range listed {
			if _, dup := seen[n]; !dup {
				seen[n] = struct{}{}
				names = append(names, n)
			}
		}
	}
	slices.Sort(names)
	return names, nil
}

func (p *listParser) feed(line string) error {
	trimmed := strings.TrimSpace(line)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return p.fail(line, "blank line")
	}

	switch p.state {
	case ExpectName, ExpectMoreNames, ExpectConnectiveOrEnd:
		if fields[0] == ".BR" {
			if p.state == ExpectConnectiveOrEnd {
				return p.fail(line, "entry after list without trailing ','")
			}
			return p.plainEntry(line, fields)
		}
		return p.connective(line, trimmed)

	case ExpectVariantBase:
		if len(fields) != 2 || fields[0] != ".B" {
			return p.fail(line, "expected .B naming the variant base")
		}
		if !slices.Contains(p.plain, fields[1]) {
			return p.fail(line, "variant base must be one of the listed names")
		}
		p.bases = []string{fields[1]}
		p.state = ExpectWith

	case ExpectWith:
		if trimmed != "with" {
			return p.fail(line, `expected "with"`)
		}
		p.state = ExpectSuffix

	case ExpectSuffix:
		switch {
		case len(fields) == 2 && fields[0] == ".B":
			p.suffixes = append(p.suffixes, fields[1])
			p.state = ExpectOr
		case len(fields) == 3 && fields[0] == ".BR" && fields[2] == ",":
			p.suffixes = append(p.suffixes, fields[1])
			p.state = ExpectSuffixOrOr
		default:
			return p.fail(line, "expected .B suffix or .BR suffix ,")
		}

	case ExpectSuffixOrOr:
		switch {
		case trimmed == "or":
			if len(p.suffixes) < 2 {
				return p.fail(line, "a comma-separated suffix list needs at least two suffixes")
			}
			p.state = ExpectTerminator
		case len(fields) == 3 && fields[0] == ".BR" && fields[2] == ",":
			p.suffixes = append(p.suffixes, fields[1])
		default:
			return p.fail(line, `expected .BR suffix , or "or"`)
		}

	case ExpectOr:
		if trimmed != "or" {
			return p.fail(line, `expected "or"`)
		}
		p.state = ExpectTerminator

	case ExpectTerminator:
		switch {
		case len(fields) == 2 && fields[0] == ".B":
			p.suffixes = append(p.suffixes, fields[1])
			if err := p.expand(line); err != nil {
				return err
			}
			p.state = Done
		case len(fields) == 3 && fields[0] == ".BR" && fields[2] == ";":
			p.suffixes = append(p.suffixes, fields[1])
			if err := p.expand(line); err != nil {
				return err
			}
			p.state = ExpectName
		default:
			return p.fail(line, "expected .B suffix or .BR suffix ;")
		}

	case Done:
		return p.fail(line, "content after final suffix")
	}
	return nil
}

func (p *listParser) plainEntry(line string, fields []string) error {
	if len(fields) != 3 {
		return p.fail(line, "expected .BR name (section)")
	}
	if !strings.HasPrefix(fields[1], p.conv.Prefix) {
		return p.fail(line, "name must start with %q", p.conv.Prefix)
	}
	ref := "(" + p.conv.FuncSection + ")"
	switch fields[2] {
	case ref + ",":
		p.state = ExpectMoreNames
	case ref:
		p.state = ExpectConnectiveOrEnd
	default:
		return p.fail(line, "expected %s or %s,", ref, ref)
	}
	p.plain = append(p.plain, fields[1])
	p.names = append(p.names, fields[1])
	return nil
}

func (p *listParser) connective(line, trimmed string) error {
	switch trimmed {
	case ConnectiveVariantsOf:
		if len(p.plain) < 2 {
			return p.fail(line, "needs at least two listed names")
		}
		p.state = ExpectVariantBase
	case ConnectiveItsVariants:
		if len(p.plain) != 1 {
			return p.fail(line, "needs exactly one listed name")
		}
		p.bases = p.plain
		p.state = ExpectSuffix
	case ConnectiveTheirVariants:
		if len(p.plain) < 2 {
			return p.fail(line, "needs at least two listed names")
		}
		p.bases = p.plain
		p.state = ExpectSuffix
	default:
		return p.fail(line, "unexpected line")
	}
	return nil
}

// expand appends base x suffix names and resets for a possible next group.
func (p *listParser) expand(line string) error {
	for _, base := range p.bases {
		if tok := p.conv.ExemptToken; tok != "" && strings.Contains(base, tok) {
			if i := strings.LastIndexByte(base, '_'); i >= 0 {
				base = base[:i]
			} else {
				base = ""
			}
			if strings.Contains(base, tok) {
				return p.fail(line, "variant base %q still contains %q after stripping", base, tok)
			}
		}
		for _, sfx := range p.suffixes {
			if !strings.HasPrefix(sfx, "_") {
				return p.fail(line, "suffix %q must start with '_'", sfx)
			}
			p.names = append(p.names, base+sfx)
		}
	}
	p.plain = nil
	p.bases = nil
	p.suffixes = nil
	return nil
}

func (p *listParser) fail(line, format string, args ...any) error {
	return lint.Formatf(line, fmt.Sprintf("in state %s: ", p.state)+format, args...)
}

// prefixRule qualifies the rule of a lint error with a context label.
func prefixRule(label string, err error) error {
	var le *lint.Error
	if !errors.As(err, &le) {
		return err
	}
	cp := *le
	cp.Rule = label + ": " + cp.Rule
	return &cp
}
