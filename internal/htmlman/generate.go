// Package htmlman generates a static HTML edition of the manual.
//
// Each real page is typeset by groff for a UTF-8 terminal with overstrike
// styling, decoded into <b>/<i> markup inside a <pre> block, and
// hyperlinked wherever it names another page as name(S). Stub pages become
// redirect documents. The output tree mirrors the source layout:
//
//	<dest>/index.html              redirect to the introduction page
//	<dest>/manpage.css
//	<dest>/man3/ss8_init.3.html
//	<dest>/man7/ssstr.7.html
//	<dest>/readme.html             only with a README
package htmlman

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/marktsuchida/ssstrdoc/internal/assets"
	"github.com/marktsuchida/ssstrdoc/internal/fileutil"
	"github.com/marktsuchida/ssstrdoc/internal/lint"
	"github.com/marktsuchida/ssstrdoc/internal/manpage"
	"github.com/marktsuchida/ssstrdoc/internal/roff"
)

// Sentinel errors for HTML generation.
var (
	ErrNoPages   = errors.New("no man pages given")
	ErrNoGroff   = errors.New("groff path cannot be empty")
	ErrOverprint = errors.New("malformed overstrike output")
	ErrTemplate  = errors.New("template failed")
	ErrReadme    = errors.New("README conversion failed")
)

// Output file names at the destination root.
const (
	IndexFile     = "index.html"
	StyleFile     = "manpage.css"
	HighlightFile = "highlight.css"
	ReadmeFile    = "readme.html"
)

// Options configure Generate.
type Options struct {
	DestDir string
	Groff   string
	Pages   []string

	Workers int           // concurrent groff processes; 0 means GOMAXPROCS
	Timeout time.Duration // per groff run; 0 means none

	Manual        string            // manual name linked in page headers
	Intro         manpage.Reference // target of index.html and header links
	ExternalLinks map[string]string // extra reference targets, e.g. "sprintf(3)"

	Readme         string // optional README.md rendered to readme.html
	HighlightStyle string // chroma style for README code

	Runner CommandRunner      // defaults to ExecRunner
	Assets assets.Loader // defaults to the embedded assets
	Logger *zerolog.Logger    // defaults to a no-op logger
}

// Summary counts what Generate wrote.
type Summary struct {
	Pages     int
	Redirects int
	Readme    bool
}

type pageData struct {
	Name     string
	Section  string
	Manual   string
	StyleURL string
	Body     template.HTML
}

type redirectData struct {
	Target string
}

type readmeData struct {
	Title        string
	Manual       string
	StyleURL     string
	HighlightURL string
	IntroURL     string
	Body         template.HTML
}

type templates struct {
	page, redirect, readme *template.Template
}

func loadTemplates(loader assets.Loader) (*templates, error) {
	parse := func(name string) (*template.Template, error) {
		src, err := loader.Template(name)
		if err != nil {
			return nil, err
		}
		t, err := template.New(name).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", ErrTemplate, name, err)
		}
		return t, nil
	}
	var ts templates
	var err error
	if ts.page, err = parse(assets.TemplatePage); err != nil {
		return nil, err
	}
	if ts.redirect, err = parse(assets.TemplateRedirect); err != nil {
		return nil, err
	}
	if ts.readme, err = parse(assets.TemplateReadme); err != nil {
		return nil, err
	}
	return &ts, nil
}

func execute(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplate, t.Name(), err)
	}
	return buf.String(), nil
}

// Generate replaces DestDir with the HTML edition of the given pages.
// Pages are typeset concurrently; the first failure cancels the rest and
// is returned.
func Generate(ctx context.Context, opts Options) (*Summary, error) {
	if len(opts.Pages) == 0 {
		return nil, ErrNoPages
	}
	if opts.Groff == "" {
		return nil, ErrNoGroff
	}
	if opts.DestDir == "" {
		return nil, fileutil.ErrEmptyDir
	}
	runner := opts.Runner
	if runner == nil {
		runner = &ExecRunner{}
	}
	loader := opts.Assets
	if loader == nil {
		loader = assets.Embedded()
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	pages := make([]roff.Page, 0, len(opts.Pages))
	dests := make([]string, 0, len(opts.Pages))
	var sections []string
	for _, p := range opts.Pages {
		dest, err := DestFor(p, opts.DestDir)
		if err != nil {
			return nil, err
		}
		page, err := roff.ReadPage(p)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
		dests = append(dests, dest)
		sections = append(sections, manDirPrefix+page.ID().Section)
	}
	slices.Sort(sections)
	sections = slices.Compact(sections)

	links, err := BuildLinks(pages, opts.ExternalLinks)
	if err != nil {
		return nil, err
	}
	tmpl, err := loadTemplates(loader)
	if err != nil {
		return nil, err
	}
	style, err := loader.Style(assets.StyleManpage)
	if err != nil {
		return nil, err
	}

	if err := fileutil.ResetDir(opts.DestDir, sections...); err != nil {
		return nil, err
	}
	if err := fileutil.WriteFile(filepath.Join(opts.DestDir, StyleFile), style); err != nil {
		return nil, err
	}

	var summary Summary
	var rendered, redirected atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, page := range pages {
		src, dest := page.ID().Path, dests[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var content string
			var err error
			switch p := page.(type) {
			case *roff.SoPage:
				content, err = renderRedirect(tmpl, links, p)
				redirected.Add(1)
			case *roff.ParsedPage:
				log.Debug().Str("page", src).Msg("typesetting")
				content, err = renderPage(gctx, runner, tmpl, links, opts, p)
				rendered.Add(1)
			}
			if err != nil {
				return fmt.Errorf("generating %s from %s: %w", dest, src, err)
			}
			return fileutil.WriteFile(dest, content)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	summary.Pages = int(rendered.Load())
	summary.Redirects = int(redirected.Load())

	index, err := execute(tmpl.redirect, redirectData{Target: pageFile(opts.Intro.Name, opts.Intro.Section)})
	if err != nil {
		return nil, err
	}
	if err := fileutil.WriteFile(filepath.Join(opts.DestDir, IndexFile), index); err != nil {
		return nil, err
	}

	if opts.Readme != "" {
		if err := writeReadme(ctx, tmpl, links, opts); err != nil {
			return nil, err
		}
		summary.Readme = true
	}

	log.Debug().Int("pages", summary.Pages).Int("redirects", summary.Redirects).Str("dest", opts.DestDir).Msg("html generated")
	return &summary, nil
}

func renderRedirect(tmpl *templates, links Links, so *roff.SoPage) (string, error) {
	name, section, err := fileutil.SplitManName(so.Target)
	if err != nil {
		return "", err
	}
	target, err := links.lookup(ref(name, section))
	if err != nil {
		return "", err
	}
	return execute(tmpl.redirect, redirectData{Target: target})
}

func renderPage(ctx context.Context, runner CommandRunner, tmpl *templates, links Links, opts Options, p *roff.ParsedPage) (string, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	out, err := Typeset(ctx, runner, opts.Groff, p.Path)
	if err != nil {
		return "", err
	}

	body, err := OverprintToHTML(out)
	if err != nil {
		return "", &lint.Error{Kind: lint.KindExternal, Path: p.Path, Rule: "cannot decode groff output", Err: err}
	}
	if body, err = links.Hyperlink(body); err != nil {
		return "", lint.InFile(p.Path, err)
	}
	body = SimplifyTags(body)
	if body, err = links.HyperlinkHeader(body, opts.Manual, opts.Intro.String()); err != nil {
		return "", lint.InFile(p.Path, err)
	}

	return execute(tmpl.page, pageData{
		Name:     p.Name,
		Section:  p.Section,
		Manual:   cmp.Or(opts.Manual, p.Header.Manual),
		StyleURL: path.Join("..", StyleFile),
		Body:     template.HTML(body), // #nosec G203 -- escaped by OverprintToHTML
	})
}

func writeReadme(ctx context.Context, tmpl *templates, links Links, opts Options) error {
	src, err := os.ReadFile(opts.Readme) // #nosec G304 -- path comes from the command line
	if err != nil {
		return err
	}
	r := NewReadmeRenderer(opts.HighlightStyle)
	body, err := r.Render(ctx, src)
	if err != nil {
		return err
	}
	if body, err = LinkFunctions(body, links); err != nil {
		return fmt.Errorf("%w: %v", ErrReadme, err)
	}

	var css bytes.Buffer
	if err := r.WriteStylesheet(&css); err != nil {
		return fmt.Errorf("%w: %v", ErrReadme, err)
	}
	if err := fileutil.WriteFile(filepath.Join(opts.DestDir, HighlightFile), css.String()); err != nil {
		return err
	}

	content, err := execute(tmpl.readme, readmeData{
		Title:        opts.Manual,
		Manual:       opts.Manual,
		StyleURL:     StyleFile,
		HighlightURL: HighlightFile,
		IntroURL:     pageFile(opts.Intro.Name, opts.Intro.Section),
		Body:         template.HTML(body), // #nosec G203 -- goldmark output without raw HTML
	})
	if err != nil {
		return err
	}
	return fileutil.WriteFile(filepath.Join(opts.DestDir, ReadmeFile), content)
}
