package assets

import (
	"errors"
	"fmt"
	"strings"
)

// Names of the assets the generator loads.
const (
	TemplatePage     = "page"
	TemplateRedirect = "redirect"
	TemplateReadme   = "readme"
	StyleManpage     = "manpage"
)

var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid asset directory")
	ErrAssetRead        = errors.New("failed to read asset")
)

// Loader supplies templates and stylesheets by bare name.
type Loader interface {
	Style(name string) (string, error)
	Template(name string) (string, error)
}

// kind is one asset directory.
type kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind    = kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	templateKind = kind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
)

// path returns the slash-separated path of name within a layer.
func (k kind) path(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	// A dot would let a name pick its own extension.
	if strings.ContainsAny(name, `/\.`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return k.dir + "/" + name + k.ext, nil
}
