// Package xref checks the relations between validated man pages: redirect
// stubs, names documented on more than one page, SEE ALSO targets and
// publication dates.
//
// Validate reports every violation it finds in one pass.
package xref

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/marktsuchida/ssstrdoc/internal/lint"
	"github.com/marktsuchida/ssstrdoc/internal/manpage"
	"github.com/marktsuchida/ssstrdoc/internal/roff"
)

// Validate runs every cross-reference and consistency check over cat and
// returns a lint.Violations error listing all failures, or nil.
func Validate(cat *manpage.Catalog, conv manpage.Conventions) error {
	var v lint.Violations

	funcNames := make(map[string][]string, len(cat.FuncPages))
	for name, fp := range cat.FuncPages {
		funcNames[name] = fp.Names
	}
	introNames := make(map[string][]string, len(cat.IntroPages))
	for name, ip := range cat.IntroPages {
		introNames[name] = ip.Names
	}

	checkStubTargets(&v, cat.FuncStubs, funcNames, conv.FuncSection)
	checkStubTargets(&v, cat.IntroStubs, introNames, conv.IntroSection)

	checkDuplicateNames(&v, cat)

	intro, ok := cat.Intro()
	if !ok {
		v.Add(&lint.Error{
			Kind:    lint.KindConsistency,
			Rule:    "exactly one introduction page is required",
			Content: strings.Join(slices.Sorted(maps.Keys(cat.IntroPages)), ", "),
		})
	} else if intro.Name != conv.IntroName {
		v.Add(&lint.Error{
			Kind:    lint.KindConsistency,
			Path:    intro.Path,
			Rule:    fmt.Sprintf("introduction page must be %s", conv.IntroName),
			Content: intro.Name,
		})
	}

	for _, name := range cat.FuncNames() {
		fp := cat.FuncPages[name]
		checkNonPrimaries(&v, &fp.CheckedPage, cat.FuncStubs)
		checkSeeAlso(&v, fp, cat, conv)
	}
	for _, name := range slices.Sorted(maps.Keys(cat.IntroPages)) {
		checkNonPrimaries(&v, &cat.IntroPages[name].CheckedPage, cat.IntroStubs)
	}

	checkDates(&v, cat)

	return v.Err()
}

// StubTarget returns the path a stub for a page named primary in section
// must redirect to.
func StubTarget(primary, section string) string {
	return fmt.Sprintf("man%s/%s.%s", section, primary, section)
}

// checkStubTargets requires each stub to redirect to man<S>/<name>.<S> where
// that page exists and documents the stub's primary name.
func checkStubTargets(v *lint.Violations, stubs map[string]*roff.SoPage, pages map[string][]string, section string) {
	for _, stubName := range slices.Sorted(maps.Keys(stubs)) {
		stub := stubs[stubName]
		fail := func(rule string) {
			v.Add(&lint.Error{Kind: lint.KindCrossRef, Path: stub.Path, Rule: rule, Content: stub.Target})
		}

		dir, file, found := strings.Cut(stub.Target, "/")
		if !found || strings.Contains(file, "/") {
			fail("redirect target must be <dir>/<file>")
			continue
		}
		if dir != "man"+section {
			fail(fmt.Sprintf("redirect target must be in man%s", section))
			continue
		}
		target, ok := strings.CutSuffix(file, "."+section)
		if !ok {
			fail(fmt.Sprintf("redirect target must end with .%s", section))
			continue
		}
		names, ok := pages[target]
		if !ok {
			fail("redirect target page not found")
			continue
		}
		if !slices.Contains(names, stubName) {
			fail(fmt.Sprintf("redirect target does not document %s", stubName))
		}
	}
}

// checkNonPrimaries requires a stub for every name after the first, aimed
// at the page itself.
func checkNonPrimaries(v *lint.Violations, page *manpage.CheckedPage, stubs map[string]*roff.SoPage) {
	want := StubTarget(page.Names[0], page.Section)
	for _, name := range page.Names[1:] {
		stub, ok := stubs[name]
		if !ok {
			v.Add(&lint.Error{
				Kind:    lint.KindCrossRef,
				Path:    page.Path,
				Rule:    fmt.Sprintf("need .so page for %s with target %s", name, want),
				Content: name,
			})
			continue
		}
		if stub.Target != want {
			v.Add(&lint.Error{
				Kind:    lint.KindCrossRef,
				Path:    stub.Path,
				Rule:    fmt.Sprintf("redirect for %s must target %s", name, want),
				Content: stub.Target,
			})
		}
	}
}

// checkSeeAlso requires every function-namespace reference on a function
// page to resolve to a page or stub.
func checkSeeAlso(v *lint.Violations, fp *manpage.FuncPage, cat *manpage.Catalog, conv manpage.Conventions) {
	for _, ref := range fp.SeeAlso {
		if ref.Section != conv.FuncSection || !strings.HasPrefix(ref.Name, conv.Prefix) {
			continue
		}
		_, isPage := cat.FuncPages[ref.Name]
		_, isStub := cat.FuncStubs[ref.Name]
		if !isPage && !isStub {
			v.Add(&lint.Error{
				Kind:    lint.KindCrossRef,
				Path:    fp.Path,
				Rule:    "page not found for SEE ALSO entry",
				Content: ref.String(),
			})
		}
	}
}

// checkDuplicateNames rejects names documented by more than one function
// page.
func checkDuplicateNames(v *lint.Violations, cat *manpage.Catalog) {
	owner := make(map[string]string)
	for _, primary := range cat.FuncNames() {
		fp := cat.FuncPages[primary]
		for _, name := range fp.Names {
			if first, dup := owner[name]; dup {
				v.Add(&lint.Error{
					Kind:    lint.KindConsistency,
					Path:    fp.Path,
					Rule:    fmt.Sprintf("name appears more than once in manual pages (also in %s)", first),
					Content: name,
				})
				continue
			}
			owner[name] = fp.Path
		}
	}
}

// checkDates requires every function page and the introduction page to
// carry the date of the first page in name order.
func checkDates(v *lint.Violations, cat *manpage.Catalog) {
	var pages []*manpage.CheckedPage
	for _, name := range cat.FuncNames() {
		pages = append(pages, &cat.FuncPages[name].CheckedPage)
	}
	for _, name := range slices.Sorted(maps.Keys(cat.IntroPages)) {
		pages = append(pages, &cat.IntroPages[name].CheckedPage)
	}
	if len(pages) == 0 {
		return
	}
	date := pages[0].Date
	for _, p := range pages[1:] {
		if p.Date != date {
			v.Add(&lint.Error{
				Kind:    lint.KindConsistency,
				Path:    p.Path,
				Rule:    fmt.Sprintf("date differs from other pages (%s in %s)", date, pages[0].Path),
				Content: p.Date,
			})
		}
	}
}
