// Package manpage validates parsed man pages against the Ssstr manual
// conventions and extracts the structured facts later stages reconcile:
// documented names, prototypes, example snippets, cross references and the
// introduction page's function listing.
package manpage

import (
	"fmt"
	"slices"
	"strings"

	"github.com/marktsuchida/ssstrdoc/internal/dateutil"
	"github.com/marktsuchida/ssstrdoc/internal/lint"
	"github.com/marktsuchida/ssstrdoc/internal/roff"
)

// CheckedPage holds what every validated page provides.
type CheckedPage struct {
	roff.Ident
	Date    string
	Names   []string // documented names; Names[0] is the primary name
	Brief   string
	SeeAlso []Reference
}

// FuncPage is a validated function page.
type FuncPage struct {
	CheckedPage
	Prototypes []string // normalized, in SYNOPSIS order
	Snippets   []string // EXAMPLES blocks; nil when the section is absent
}

// IntroPage is the validated introduction page.
type IntroPage struct {
	CheckedPage
	Functions []string // sorted set of names listed under FUNCTIONS
}

var funcOptional = []string{
	SectionReturnValue,
	SectionErrors,
	SectionNotes,
	SectionBugs,
	SectionExamples,
}

// pageSections is a page split into the mandatory sections and the rest.
type pageSections struct {
	name, synopsis, description, seeAlso []string
	middle                               []roff.Section
}

// CheckFuncPage validates a function page.
func CheckFuncPage(pp *roff.ParsedPage, conv Conventions) (*FuncPage, error) {
	fp, err := checkFuncPage(pp, conv)
	if err != nil {
		return nil, lint.InFile(pp.Path, err)
	}
	return fp, nil
}

func checkFuncPage(pp *roff.ParsedPage, conv Conventions) (*FuncPage, error) {
	secs, err := checkCommon(pp, conv)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(pp.Name, conv.Prefix) {
		return nil, lint.Formatf(pp.Name, "function page name must start with %q", conv.Prefix)
	}

	optional := make(map[string][]string)
	rest := secs.middle
	for _, heading := range funcOptional {
		if len(rest) > 0 && rest[0].Heading == heading {
			optional[heading] = rest[0].Lines
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		headings := make([]string, len(rest))
		for i, s := range rest {
			headings[i] = s.Heading
		}
		return nil, lint.Formatf(strings.Join(headings, ", "), "unrecognized sections")
	}

	names, brief, err := CheckName(secs.name, pp.Ident, conv)
	if err != nil {
		return nil, err
	}
	prototypes, err := CheckSynopsis(secs.synopsis, conv)
	if err != nil {
		return nil, err
	}
	declared, err := protoNames(prototypes)
	if err != nil {
		return nil, err
	}
	if !slices.Equal(declared, names) {
		return nil, violation(SectionSynopsis, strings.Join(declared, ", "),
			"prototype names must match NAME list %s", strings.Join(names, ", "))
	}
	if len(secs.description) == 0 {
		return nil, violation(SectionDescription, "", "must not be empty")
	}

	rv, hasRV := optional[SectionReturnValue]
	if err := CheckReturnValue(rv, hasRV, prototypes); err != nil {
		return nil, err
	}
	for _, heading := range []string{SectionErrors, SectionNotes, SectionBugs} {
		if lines, ok := optional[heading]; ok && len(lines) == 0 {
			return nil, violation(heading, "", "must not be empty")
		}
	}

	var snippets []string
	if lines, ok := optional[SectionExamples]; ok {
		if snippets, err = CheckExamples(lines); err != nil {
			return nil, err
		}
	}

	intro := conv.IntroReference()
	seeAlso, err := CheckSeeAlso(secs.seeAlso, &intro)
	if err != nil {
		return nil, err
	}

	return &FuncPage{
		CheckedPage: CheckedPage{
			Ident:   pp.Ident,
			Date:    pp.Header.Date,
			Names:   names,
			Brief:   brief,
			SeeAlso: seeAlso,
		},
		Prototypes: prototypes,
		Snippets:   snippets,
	}, nil
}

// CheckIntroPage validates the introduction page.
func CheckIntroPage(pp *roff.ParsedPage, conv Conventions) (*IntroPage, error) {
	ip, err := checkIntroPage(pp, conv)
	if err != nil {
		return nil, lint.InFile(pp.Path, err)
	}
	return ip, nil
}

func checkIntroPage(pp *roff.ParsedPage, conv Conventions) (*IntroPage, error) {
	secs, err := checkCommon(pp, conv)
	if err != nil {
		return nil, err
	}
	if pp.Name != conv.IntroName {
		return nil, lint.Formatf(pp.Name, "introduction page must be named %q", conv.IntroName)
	}
	if len(secs.middle) != 1 || secs.middle[0].Heading != SectionFunctions {
		return nil, lint.Formatf("", "introduction page must have exactly one section, %s, before %s",
			SectionFunctions, SectionSeeAlso)
	}

	names, brief, err := CheckName(secs.name, pp.Ident, conv)
	if err != nil {
		return nil, err
	}
	if len(secs.description) == 0 {
		return nil, violation(SectionDescription, "", "must not be empty")
	}
	functions, err := ParseFunctions(secs.middle[0].Lines, conv)
	if err != nil {
		return nil, err
	}
	seeAlso, err := CheckSeeAlso(secs.seeAlso, nil)
	if err != nil {
		return nil, err
	}

	return &IntroPage{
		CheckedPage: CheckedPage{
			Ident:   pp.Ident,
			Date:    pp.Header.Date,
			Names:   names,
			Brief:   brief,
			SeeAlso: seeAlso,
		},
		Functions: functions,
	}, nil
}

// checkCommon validates the .TH header and the fixed section frame shared
// by all pages.
func checkCommon(pp *roff.ParsedPage, conv Conventions) (*pageSections, error) {
	h := pp.Header
	checks := []struct {
		field, got, want string
	}{
		{"section", h.Section, pp.Section},
		{"title", h.Title, strings.ToUpper(pp.Name)},
		{"source", h.Source, conv.Source},
		{"manual", h.Manual, conv.Manual},
	}
	for _, c := range checks {
		if c.got != c.want {
			return nil, lint.Formatf(c.got, ".TH %s must be %q", c.field, c.want)
		}
	}
	if err := dateutil.Check(h.Date, conv.DateLayout); err != nil {
		return nil, &lint.Error{Kind: lint.KindFormat, Rule: "bad .TH date", Content: h.Date, Err: err}
	}

	sections := pp.Sections
	var secs pageSections
	for _, dst := range []struct {
		heading string
		lines   *[]string
	}{
		{SectionName, &secs.name},
		{SectionSynopsis, &secs.synopsis},
		{SectionDescription, &secs.description},
	} {
		if len(sections) == 0 {
			return nil, lint.Formatf("", "expected section %s, found end of page", dst.heading)
		}
		if sections[0].Heading != dst.heading {
			return nil, lint.Formatf(sections[0].Heading, "expected section %s", dst.heading)
		}
		*dst.lines = sections[0].Lines
		sections = sections[1:]
	}
	if len(sections) == 0 {
		return nil, lint.Formatf("", "last section must be %s", SectionSeeAlso)
	}
	last := sections[len(sections)-1]
	if last.Heading != SectionSeeAlso {
		return nil, lint.Formatf(last.Heading, "last section must be %s", SectionSeeAlso)
	}
	secs.seeAlso = last.Lines
	secs.middle = sections[:len(sections)-1]
	return &secs, nil
}

// String identifies the page for diagnostics.
func (p *CheckedPage) String() string {
	return fmt.Sprintf("%s(%s)", p.Name, p.Section)
}
