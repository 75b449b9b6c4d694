package manpage

import (
	"maps"
	"slices"

	"github.com/marktsuchida/ssstrdoc/internal/fileutil"
	"github.com/marktsuchida/ssstrdoc/internal/lint"
	"github.com/marktsuchida/ssstrdoc/internal/roff"
)

// Catalog holds every validated page and stub of one run, keyed by primary
// name.
type Catalog struct {
	FuncPages  map[string]*FuncPage
	FuncStubs  map[string]*roff.SoPage
	IntroPages map[string]*IntroPage
	IntroStubs map[string]*roff.SoPage
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		FuncPages:  make(map[string]*FuncPage),
		FuncStubs:  make(map[string]*roff.SoPage),
		IntroPages: make(map[string]*IntroPage),
		IntroStubs: make(map[string]*roff.SoPage),
	}
}

// LoadAll reads and validates every page. The first page that fails stops
// the load; the error names its file.
func LoadAll(paths []string, conv Conventions) (*Catalog, error) {
	cat := NewCatalog()
	for _, path := range paths {
		if err := cat.load(path, conv); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

func (c *Catalog) load(path string, conv Conventions) error {
	_, section, err := fileutil.SplitManName(path)
	if err != nil {
		return &lint.Error{Kind: lint.KindFormat, Path: path, Rule: "bad file name", Err: err}
	}
	if section != conv.FuncSection && section != conv.IntroSection {
		return &lint.Error{Kind: lint.KindFormat, Path: path, Rule: "unrecognized manual section", Content: section}
	}

	page, err := roff.ReadPage(path)
	if err != nil {
		return err
	}
	return c.Add(page, conv)
}

// Add validates a parsed page and files it under its section.
func (c *Catalog) Add(page roff.Page, conv Conventions) error {
	id := page.ID()
	intro := id.Section == conv.IntroSection

	switch p := page.(type) {
	case *roff.SoPage:
		if intro {
			c.IntroStubs[id.Name] = p
		} else {
			c.FuncStubs[id.Name] = p
		}
	case *roff.ParsedPage:
		if intro {
			ip, err := CheckIntroPage(p, conv)
			if err != nil {
				return err
			}
			c.IntroPages[id.Name] = ip
		} else {
			fp, err := CheckFuncPage(p, conv)
			if err != nil {
				return err
			}
			c.FuncPages[id.Name] = fp
		}
	}
	return nil
}

// FuncNames returns the primary names of all function pages, sorted.
func (c *Catalog) FuncNames() []string {
	return slices.Sorted(maps.Keys(c.FuncPages))
}

// Prototypes returns the prototypes documented across all function pages,
// in page-name order.
func (c *Catalog) Prototypes() []string {
	var protos []string
	for _, name := range c.FuncNames() {
		protos = append(protos, c.FuncPages[name].Prototypes...)
	}
	return protos
}

// Intro returns the introduction page when exactly one is present.
func (c *Catalog) Intro() (*IntroPage, bool) {
	if len(c.IntroPages) != 1 {
		return nil, false
	}
	for _, ip := range c.IntroPages {
		return ip, true
	}
	return nil, false
}
