package ssstrdoc

import (
	"context"

	"github.com/marktsuchida/ssstrdoc/internal/htmlman"
	"github.com/marktsuchida/ssstrdoc/internal/logging"
	"github.com/marktsuchida/ssstrdoc/internal/manpage"
)

// HTMLInput describes one HTML generation run.
type HTMLInput struct {
	DestDir string   // replaced entirely
	Groff   string   // path of the groff executable
	Pages   []string // man pages and stubs, under man<S>/ or link<S>/
	Readme  string   // optional README.md rendered to readme.html
}

// HTMLSummary counts what GenerateHTML wrote.
type HTMLSummary = htmlman.Summary

// GenerateHTML replaces in.DestDir with the HTML edition of the manual.
// Workers, timeout, external links and the highlight style come from the
// configuration.
func (s *Service) GenerateHTML(ctx context.Context, in HTMLInput) (*HTMLSummary, error) {
	timeout, err := s.cfg.HTMLTimeout()
	if err != nil {
		return nil, err
	}
	m := s.cfg.Manual
	log := logging.WithComponent(s.log, "htmlman")

	return htmlman.Generate(ctx, htmlman.Options{
		DestDir:        in.DestDir,
		Groff:          in.Groff,
		Pages:          in.Pages,
		Workers:        s.cfg.HTML.Workers,
		Timeout:        timeout,
		Manual:         m.Title,
		Intro:          manpage.Reference{Name: m.IntroName, Section: m.IntroSection},
		ExternalLinks:  s.cfg.HTML.ExternalLinks,
		Readme:         in.Readme,
		HighlightStyle: s.cfg.HTML.HighlightStyle,
		Runner:         s.runner,
		Assets:         s.assets,
		Logger:         &log,
	})
}
