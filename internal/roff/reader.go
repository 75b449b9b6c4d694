// Package roff reads man page sources written in the small roff macro
// vocabulary used by the Ssstr manual.
//
// A page is either a redirect stub (a single .so request) or a full page
// starting with .TH and divided into .SH sections. Leading .\" comment
// lines are ignored. The package does not interpret section contents; that
// is left to the manpage package.
package roff

import (
	"os"
	"strings"

	"github.com/marktsuchida/ssstrdoc/internal/fileutil"
	"github.com/marktsuchida/ssstrdoc/internal/lint"
)

// Request names recognized by the reader.
const (
	RequestComment    = `.\"`
	RequestSource     = ".so"
	RequestTitle      = ".TH"
	RequestSection    = ".SH"
	RequestSubsection = ".SS"
)

// Page is either a *SoPage or a *ParsedPage.
type Page interface {
	ID() Ident
}

// Ident identifies a page by its file.
type Ident struct {
	Path    string
	Name    string // primary name, the file name stem
	Section string // manual section, the file name extension
}

// SoPage is a redirect stub.
type SoPage struct {
	Ident
	Target string // relative path of the aliased page, e.g. "man3/ss8_init.3"
}

// Header holds the five .TH fields with surrounding quotes removed.
type Header struct {
	Title   string
	Section string
	Date    string
	Source  string
	Manual  string
}

// Section is one heading and its raw content lines, without terminators.
type Section struct {
	Heading string
	Lines   []string
}

// ParsedPage is a full page before semantic validation.
type ParsedPage struct {
	Ident
	Header   Header
	Sections []Section
}

// ID returns the identity of the page.
func (i Ident) ID() Ident { return i }

// ReadPage reads and parses the man page at path.
func ReadPage(path string) (Page, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- paths come from the command line
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}

// Parse parses man page source. The primary name and section are taken
// from the base name of path.
func Parse(path string, data []byte) (Page, error) {
	name, section, err := fileutil.SplitManName(path)
	if err != nil {
		return nil, &lint.Error{Kind: lint.KindFormat, Path: path, Rule: "bad file name", Err: err}
	}
	id := Ident{Path: path, Name: name, Section: section}

	lines := fileutil.SplitLines(string(data))
	if len(lines) == 0 {
		return nil, lint.New(lint.KindFormat, path, "has no lines")
	}
	if !strings.HasSuffix(lines[len(lines)-1], "\n") {
		return nil, lint.New(lint.KindFormat, path, "missing newline at end of last line")
	}
	lines = trimTerminators(lines)

	i := 0
	for i < len(lines) && strings.HasPrefix(lines[i], RequestComment) {
		i++
	}
	if i == len(lines) {
		return nil, lint.New(lint.KindFormat, path, "has only comment lines")
	}

	first := lines[i]
	if strings.HasPrefix(first, RequestSource+" ") {
		fields := strings.Fields(first)
		if len(fields) != 2 {
			return nil, &lint.Error{Kind: lint.KindFormat, Path: path, Rule: ".so must be followed by one word", Content: first}
		}
		if len(lines) != i+1 {
			return nil, lint.New(lint.KindFormat, path, "file with .so must not have additional lines")
		}
		return &SoPage{Ident: id, Target: fields[1]}, nil
	}

	if !strings.HasPrefix(first, RequestTitle+" ") {
		return nil, &lint.Error{Kind: lint.KindFormat, Path: path, Rule: "first line must be .so or .TH", Content: first}
	}
	items, err := SplitFields(first)
	if err != nil {
		return nil, &lint.Error{Kind: lint.KindFormat, Path: path, Rule: "malformed .TH", Content: first, Err: err}
	}
	if len(items) != 6 {
		return nil, &lint.Error{Kind: lint.KindFormat, Path: path, Rule: ".TH must be followed by 5 possibly-quoted words", Content: first}
	}

	sections, err := SplitSections(lines[i+1:], RequestSection)
	if err != nil {
		return nil, lint.InFile(path, err)
	}

	return &ParsedPage{
		Ident: id,
		Header: Header{
			Title:   Unquote(items[1]),
			Section: Unquote(items[2]),
			Date:    Unquote(items[3]),
			Source:  Unquote(items[4]),
			Manual:  Unquote(items[5]),
		},
		Sections: sections,
	}, nil
}

// SplitSections divides lines at each line starting with request. The first
// line must start a section and every request must carry a heading.
func SplitSections(lines []string, request string) ([]Section, error) {
	var sections []Section
	for len(lines) > 0 {
		line := lines[0]
		if !strings.HasPrefix(line, request) {
			return nil, lint.Formatf(line, "expected %s", request)
		}
		parts := strings.Fields(line)
		heading := ""
		if len(parts) > 1 {
			heading = strings.TrimSpace(line[len(parts[0]):])
		}
		if heading == "" {
			return nil, lint.Formatf(line, "%s without heading", request)
		}
		lines = lines[1:]

		var content []string
		for len(lines) > 0 && !strings.HasPrefix(lines[0], request) {
			content = append(content, lines[0])
			lines = lines[1:]
		}
		sections = append(sections, Section{Heading: heading, Lines: content})
	}
	return sections, nil
}

func trimTerminators(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		l = strings.TrimSuffix(l, "\n")
		out[i] = strings.TrimSuffix(l, "\r")
	}
	return out
}
