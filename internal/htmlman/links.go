package htmlman

import (
	"fmt"
	"maps"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/marktsuchida/ssstrdoc/internal/fileutil"
	"github.com/marktsuchida/ssstrdoc/internal/lint"
	"github.com/marktsuchida/ssstrdoc/internal/roff"
)

// Source directory prefixes. Stubs may live in link<S> directories so that
// only real pages are installed.
const (
	manDirPrefix  = "man"
	linkDirPrefix = "link"
)

// Links maps a reference such as "ss8_init(3)" to a URL relative to a
// generated page.
type Links map[string]string

// pageFile returns the generated file name of a page, relative to the
// destination root, using forward slashes.
func pageFile(name, section string) string {
	return path.Join(manDirPrefix+section, name+"."+section+".html")
}

// DestFor maps a source page path to its generated HTML file under destDir.
// The page must sit in a man<S> or link<S> directory.
func DestFor(src, destDir string) (string, error) {
	name, section, err := fileutil.SplitManName(src)
	if err != nil {
		return "", err
	}
	dir := filepath.Base(filepath.Dir(src))
	if dir != manDirPrefix+section && dir != linkDirPrefix+section {
		return "", lint.New(lint.KindFormat, src, fmt.Sprintf("must be in %s%s or %s%s", manDirPrefix, section, linkDirPrefix, section))
	}
	return filepath.Join(destDir, filepath.FromSlash(pageFile(name, section))), nil
}

// BuildLinks maps every page to its generated file. Pages in link<S>
// directories are followed through their .so target so that the link
// points straight at the real page.
func BuildLinks(pages []roff.Page, external map[string]string) (Links, error) {
	links := make(Links, len(pages)+len(external))
	for _, p := range pages {
		id := p.ID()
		if _, err := DestFor(id.Path, "."); err != nil {
			return nil, err
		}
		name, section := id.Name, id.Section
		if so, ok := p.(*roff.SoPage); ok && strings.HasPrefix(filepath.Base(filepath.Dir(id.Path)), linkDirPrefix) {
			tname, tsection, err := fileutil.SplitManName(so.Target)
			if err != nil {
				return nil, lint.InFile(id.Path, err)
			}
			name, section = tname, tsection
		}
		links[ref(id.Name, id.Section)] = path.Join("..", pageFile(name, section))
	}
	maps.Copy(links, external)
	return links, nil
}

func ref(name, section string) string { return name + "(" + section + ")" }

func (l Links) lookup(key string) (string, error) {
	url, ok := l[key]
	if !ok {
		return "", &lint.Error{Kind: lint.KindCrossRef, Rule: "broken link to " + key}
	}
	return url, nil
}

var (
	// groff -Tutf8 hyphenates with U+2010; U+2013 and '-' are accepted too.
	reHyphenatedRef = regexp.MustCompile(`<b>([_A-Za-z][_A-Za-z0-9]*)([-\x{2010}\x{2013}])</b>\n( {4,8})<b>([_A-Za-z0-9]+)</b>\(([1-8])\)`)
	reRef           = regexp.MustCompile(`<b>([_A-Za-z][_A-Za-z0-9]*)</b>\(([1-8])\)`)
)

// Hyperlink turns bold references such as <b>ss8_init</b>(3) into links,
// including references hyphenated across a line break. A reference to an
// unknown page is an error.
func (l Links) Hyperlink(text string) (string, error) {
	var firstErr error
	text = reHyphenatedRef.ReplaceAllStringFunc(text, func(m string) string {
		g := reHyphenatedRef.FindStringSubmatch(m)
		name0, hyphen, indent, name1, section := g[1], g[2], g[3], g[4], g[5]
		url, err := l.lookup(ref(name0+name1, section))
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%w (hyphenated %s-%s)", err, name0, name1)
			}
			return m
		}
		// One <b> spans both anchors so the second line is not matched again.
		return fmt.Sprintf(`<a href="%s"><b>%s%s</a>`+"\n"+`%s<a href="%s">%s</b>(%s)</a>`,
			url, name0, hyphen, indent, url, name1, section)
	})
	if firstErr != nil {
		return "", firstErr
	}

	text = reRef.ReplaceAllStringFunc(text, func(m string) string {
		g := reRef.FindStringSubmatch(m)
		url, err := l.lookup(ref(g[1], g[2]))
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return m
		}
		return fmt.Sprintf(`<a href="%s"><b>%s</b>(%s)</a>`, url, g[1], g[2])
	})
	if firstErr != nil {
		return "", firstErr
	}
	return text, nil
}

// HyperlinkHeader links the manual name in the page header and footer
// lines ("SS8_INIT(3)   Ssstr Manual   SS8_INIT(3)") to the intro page.
func (l Links) HyperlinkHeader(text, manual, intro string) (string, error) {
	re := regexp.MustCompile(`(?m)^([_A-Z][_A-Z0-9]*\([1-8]\))( +)(` + regexp.QuoteMeta(manual) + `)( +)([_A-Z][_A-Z0-9]*\([1-8]\))$`)
	if !re.MatchString(text) {
		return text, nil
	}
	url, err := l.lookup(intro)
	if err != nil {
		return "", err
	}
	return re.ReplaceAllString(text, `${1}${2}<a href="`+url+`">${3}</a>${4}${5}`), nil
}
