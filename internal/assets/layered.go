package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

//go:embed styles templates
var builtin embed.FS

// Layered looks an asset up in the override directory, if any, and then in
// the built-in set.
type Layered struct {
	dir string // empty when only built-in assets are used
}

var _ Loader = (*Layered)(nil)

// Embedded returns a loader over the built-in assets only.
func Embedded() *Layered {
	return &Layered{}
}

// New returns a loader that prefers files under dir. An empty dir means
// built-in assets only.
func New(dir string) (*Layered, error) {
	if dir == "" {
		return Embedded(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, dir)
	}
	return &Layered{dir: dir}, nil
}

// Dir returns the override directory, or "" when there is none.
func (l *Layered) Dir() string {
	return l.dir
}

// Style returns styles/<name>.css.
func (l *Layered) Style(name string) (string, error) {
	return l.load(styleKind, name)
}

// Template returns templates/<name>.html.
func (l *Layered) Template(name string) (string, error) {
	return l.load(templateKind, name)
}

func (l *Layered) load(k kind, name string) (string, error) {
	rel, err := k.path(name)
	if err != nil {
		return "", err
	}
	if l.dir != "" {
		data, err := readOverride(l.dir, rel)
		switch {
		case err == nil:
			return string(data), nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
		}
	}
	data, err := fs.ReadFile(builtin, rel)
	if err != nil {
		return "", fmt.Errorf("%w: %q", k.notFound, name)
	}
	return string(data), nil
}

// readOverride reads rel without leaving dir.
func readOverride(dir, rel string) ([]byte, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}
	defer func() { _ = root.Close() }()
	return fs.ReadFile(root.FS(), rel)
}
