package ssstrdoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/marktsuchida/ssstrdoc/internal/fileutil"
	"github.com/marktsuchida/ssstrdoc/internal/header"
	"github.com/marktsuchida/ssstrdoc/internal/lint"
	"github.com/marktsuchida/ssstrdoc/internal/manpage"
	"github.com/marktsuchida/ssstrdoc/internal/readme"
	"github.com/marktsuchida/ssstrdoc/internal/snippet"
	"github.com/marktsuchida/ssstrdoc/internal/xref"
)

// CheckMan validates the man pages and reconciles them with the header at
// headerPath and the example test sources. Stages run in order and the
// first failing stage ends the check:
//
//  1. every page on its own
//  2. stubs, SEE ALSO targets, duplicates and dates across pages
//  3. header prototypes against SYNOPSIS prototypes
//  4. header functions against the introduction's FUNCTIONS listing
//  5. EXAMPLES snippets against the test sources
func (s *Service) CheckMan(ctx context.Context, headerPath string, testPaths, pagePaths []string) error {
	if headerPath == "" {
		return ErrNoHeader
	}
	if len(pagePaths) == 0 {
		return ErrNoPages
	}
	conv, err := s.cfg.ManpageConventions()
	if err != nil {
		return err
	}

	s.log.Debug().Int("pages", len(pagePaths)).Msg("checking pages")
	cat, err := manpage.LoadAll(pagePaths, conv)
	if err != nil {
		return err
	}
	if err := xref.Validate(cat, conv); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.log.Debug().Str("header", headerPath).Msg("reconciling prototypes")
	protos, err := header.ReadPrototypes(headerPath, s.cfg.HeaderConventions())
	if err != nil {
		return err
	}
	if err := s.report(header.Reconcile(protos, header.NewSet(cat.Prototypes()...))); err != nil {
		return err
	}

	intro, ok := cat.Intro()
	if !ok {
		return ErrNoIntro
	}
	listing, err := header.ReconcileListing(protos, intro.Functions, intro.Name+"."+intro.Section)
	if err != nil {
		return lint.InFile(headerPath, err)
	}
	if err := s.report(listing); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.log.Debug().Int("tests", len(testPaths)).Msg("reconciling examples")
	opts := s.cfg.SnippetOptions()
	candidates, err := opts.ReadTestSnippets(testPaths)
	if err != nil {
		return err
	}
	return s.report(opts.Reconcile(documentedSnippets(cat), candidates))
}

// documentedSnippets collects the EXAMPLES blocks of every function page in
// name order.
func documentedSnippets(cat *manpage.Catalog) []snippet.Documented {
	var docs []snippet.Documented
	for _, name := range cat.FuncNames() {
		p := cat.FuncPages[name]
		for _, text := range p.Snippets {
			docs = append(docs, snippet.Documented{Path: p.Path, Text: text})
		}
	}
	return docs
}

// CheckReadme writes the C test source for the README's annotated snippets
// to testSourcePath, then requires the README to mention every function
// page among pagePaths. The test source is written even when the mention
// check fails.
func (s *Service) CheckReadme(ctx context.Context, testSourcePath, readmePath string, pagePaths []string) error {
	if readmePath == "" {
		return ErrNoReadme
	}
	if testSourcePath == "" {
		return ErrNoOutput
	}
	src, err := os.ReadFile(readmePath) // #nosec G304 -- path comes from the command line
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadReadme, err)
	}

	snippets, err := readme.Parse(src)
	if err != nil {
		return lint.InFile(readmePath, err)
	}
	var buf bytes.Buffer
	if err := readme.WriteTestSource(&buf, snippets, s.cfg.Readme.Includes); err != nil {
		return err
	}
	if err := fileutil.WriteFile(testSourcePath, buf.String()); err != nil {
		return err
	}
	s.log.Debug().Int("snippets", len(snippets)).Str("output", testSourcePath).Msg("wrote snippet tests")
	if err := ctx.Err(); err != nil {
		return err
	}

	functions, err := readme.FunctionPages(pagePaths, s.cfg.Manual.FuncSection)
	if err != nil {
		return err
	}
	return s.report(readme.CheckMentions(readmePath, src, functions, s.cfg.Manual.Prefix))
}

// CheckVersion requires every file in paths to announce version within its
// first lines. Missing banners are collected; read failures stop the check.
func (s *Service) CheckVersion(version string, paths []string) error {
	if version == "" {
		return ErrNoVersion
	}
	var v lint.Violations
	for _, p := range paths {
		err := header.CheckVersion(version, p)
		var le *lint.Error
		switch {
		case err == nil:
		case errors.As(err, &le):
			v.Add(le)
		default:
			return err
		}
	}
	return v.Err()
}
