package htmlman

import (
	"maps"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var reCodeName = regexp.MustCompile(`^([_A-Za-z][_A-Za-z0-9]*)(?:\(\))?$`)

// rootURL converts a link relative to a page into one relative to the
// destination root, where readme.html lives. External URLs pass through.
func rootURL(url string) string {
	if rest, ok := strings.CutPrefix(url, "../"); ok {
		return rest
	}
	return url
}

// pageURLs maps each page name to its root-relative URL, preferring the
// lowest section when a name is documented in several.
func (l Links) pageURLs() map[string]string {
	keys := slices.Sorted(maps.Keys(l))
	byName := make(map[string]string, len(keys))
	for _, k := range keys {
		name, rest, ok := strings.Cut(k, "(")
		if !ok || !strings.HasSuffix(rest, ")") {
			continue
		}
		if _, seen := byName[name]; !seen {
			byName[name] = rootURL(l[k])
		}
	}
	return byName
}

// LinkFunctions wraps inline code spans naming a manual page, such as
// <code>ss8_init()</code>, in a link to that page. Code blocks and spans
// already inside a link are left alone.
func LinkFunctions(fragment string, links Links) (string, error) {
	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}

	urls := links.pageURLs()
	linkCode(body, urls)

	var buf strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func linkCode(n *html.Node, urls map[string]string) {
	if n.Type == html.ElementNode && (n.DataAtom == atom.Pre || n.DataAtom == atom.A) {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && c.DataAtom == atom.Code {
			wrapCode(c, urls)
		} else {
			linkCode(c, urls)
		}
		c = next
	}
}

func wrapCode(code *html.Node, urls map[string]string) {
	text := code.FirstChild
	if text == nil || text.Type != html.TextNode || text.NextSibling != nil {
		return
	}
	m := reCodeName.FindStringSubmatch(text.Data)
	if m == nil {
		return
	}
	url, ok := urls[m[1]]
	if !ok {
		return
	}
	a := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.A,
		Data:     "a",
		Attr:     []html.Attribute{{Key: "href", Val: url}},
	}
	code.Parent.InsertBefore(a, code)
	code.Parent.RemoveChild(code)
	a.AppendChild(code)
}
