// Package snippet checks that every example in the manual is backed by a
// compiled test.
//
// Snippets are compared by the BLAKE3 checksum of their normalized text, so
// differences in whitespace, line breaks, // comments and the spelling of
// the library include do not matter. When an example has no match the
// closest test snippets are reported to help locate the drift.
package snippet

import (
	"encoding/hex"
	"os"
	"slices"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/marktsuchida/ssstrdoc/internal/fileutil"
	"github.com/marktsuchida/ssstrdoc/internal/lint"
)

// Options configure normalization, marker lines and match reporting.
type Options struct {
	IncludeFrom string  // include line rewritten to IncludeTo before comparison
	IncludeTo   string
	Begin       string  // line opening a snippet segment in a test source
	End         string  // line closing a snippet segment
	MaxMatches  int     // closest candidates reported per miss
	Cutoff      float64 // minimum similarity ratio of a reported candidate
}

// DefaultOptions returns the options matching the Ssstr test sources.
func DefaultOptions() Options {
	return Options{
		IncludeFrom: `#include "ss8str.h"`,
		IncludeTo:   "#include <ss8str.h>",
		Begin:       "#define SNIPPET",
		End:         "#undef SNIPPET",
		MaxMatches:  3,
		Cutoff:      0.6,
	}
}

// Normalize collapses whitespace within each line, canonicalizes the
// include line, strips // comments and joins the non-empty lines with
// single spaces.
func (o Options) Normalize(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if o.IncludeFrom != "" && line == o.IncludeFrom {
			line = o.IncludeTo
		}
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, " ")
}

// Sum is the checksum of a normalized snippet.
type Sum [32]byte

func (s Sum) String() string { return hex.EncodeToString(s[:]) }

// Checksum returns the BLAKE3-256 digest of the normalized snippet.
func (o Options) Checksum(s string) Sum {
	return blake3.Sum256([]byte(o.Normalize(s)))
}

// Candidate is the concatenated snippet segments of one test source.
type Candidate struct {
	Path string
	Text string
}

// ReadTestSnippets reads one candidate from each test source.
func (o Options) ReadTestSnippets(paths []string) ([]Candidate, error) {
	candidates := make([]Candidate, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path) // #nosec G304 -- paths come from the command line
		if err != nil {
			return nil, err
		}
		text, err := o.ExtractSegments(string(data))
		if err != nil {
			return nil, lint.InFile(path, err)
		}
		candidates = append(candidates, Candidate{Path: path, Text: text})
	}
	return candidates, nil
}

// ExtractSegments concatenates every run of lines between the Begin and End
// marker lines. Source without any segment content is an error.
func (o Options) ExtractSegments(src string) (string, error) {
	lines := fileutil.SplitLines(src)
	bare := make([]string, len(lines))
	for i, l := range lines {
		bare[i] = strings.TrimRight(l, "\r\n")
	}

	var b strings.Builder
	for {
		begin := slices.Index(bare, o.Begin)
		if begin < 0 {
			break
		}
		end := slices.Index(bare[begin+1:], o.End)
		if end < 0 {
			return "", lint.Formatf(o.Begin, "snippet segment without %q", o.End)
		}
		end += begin + 1
		for _, l := range lines[begin+1 : end] {
			b.WriteString(l)
		}
		lines, bare = lines[end+1:], bare[end+1:]
	}
	if b.Len() == 0 {
		return "", lint.Formatf("", "must contain snippet segments between %q and %q", o.Begin, o.End)
	}
	return b.String(), nil
}

// Normalize applies DefaultOptions().Normalize.
func Normalize(s string) string {
	return DefaultOptions().Normalize(s)
}
