// Package header extracts the documented prototypes from the library header
// and reconciles them with the man pages.
package header

import (
	"maps"
	"os"
	"slices"
	"strings"
	"unicode"

	"github.com/marktsuchida/ssstrdoc/internal/lint"
)

// Substitution replaces every occurrence of Old with New.
type Substitution struct {
	Old string `yaml:"old"`
	New string `yaml:"new"`
}

// Conventions describe the documented-prototype region of the header.
type Conventions struct {
	Begin         string
	End           string
	NoisePrefixes []string
	Substitutions []Substitution
}

// DefaultConventions returns the markers and substitutions of ss8str.h.
func DefaultConventions() Conventions {
	return Conventions{
		Begin:         "///// BEGIN_DOCUMENTED_PROTOTYPES",
		End:           "///// END_DOCUMENTED_PROTOTYPES",
		NoisePrefixes: []string{"#", "//", "/*", "SSSTR_ATTRIBUTE"},
		Substitutions: []Substitution{
			{Old: "SSSTR_INLINE ", New: ""},
			{Old: "SSSTR_RESTRICT", New: "restrict"},
		},
	}
}

// Set is an unordered collection of strings.
type Set map[string]struct{}

// NewSet returns a set holding items.
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// Minus returns the sorted members of s not in other.
func (s Set) Minus(other Set) []string {
	var out []string
	for it := range s {
		if _, ok := other[it]; !ok {
			out = append(out, it)
		}
	}
	slices.Sort(out)
	return out
}

// ReadPrototypes reads the prototypes declared between the sentinel lines of
// the header at path.
func ReadPrototypes(path string, conv Conventions) (Set, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return nil, err
	}
	protos, err := ParsePrototypes(string(data), conv)
	if err != nil {
		return nil, lint.InFile(path, err)
	}
	return protos, nil
}

// ParsePrototypes extracts prototypes from header text. Blank lines are
// dropped; lines starting with a noise prefix are skipped; lines starting
// with a space continue the previous prototype.
func ParsePrototypes(text string, conv Conventions) (Set, error) {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, strings.TrimRightFunc(l, unicode.IsSpace))
	}

	begin := slices.Index(lines, conv.Begin)
	if begin < 0 {
		return nil, lint.Formatf(conv.Begin, "missing begin marker")
	}
	end := slices.Index(lines, conv.End)
	if end < 0 {
		return nil, lint.Formatf(conv.End, "missing end marker")
	}
	if end < begin {
		return nil, lint.Formatf(conv.End, "end marker precedes begin marker")
	}

	var protos []string
	for _, line := range lines[begin+1 : end] {
		switch {
		case hasAnyPrefix(line, conv.NoisePrefixes):
		case strings.HasPrefix(line, " "):
			if len(protos) == 0 {
				return nil, lint.Formatf(line, "continuation line without a prototype")
			}
			protos[len(protos)-1] += " " + strings.TrimLeftFunc(line, unicode.IsSpace)
		default:
			protos = append(protos, line)
		}
	}

	set := make(Set, len(protos))
	for _, p := range protos {
		for _, sub := range conv.Substitutions {
			p = strings.ReplaceAll(p, sub.Old, sub.New)
		}
		set[p] = struct{}{}
	}
	return set, nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
