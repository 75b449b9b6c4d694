package htmlman

import (
	"bytes"
	"context"
	"fmt"
	"io"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// DefaultHighlightStyle is the chroma style of README code blocks.
const DefaultHighlightStyle = "github"

// ReadmeRenderer converts README Markdown to an HTML fragment with
// class-based syntax highlighting.
type ReadmeRenderer struct {
	md    goldmark.Markdown
	style string
}

// NewReadmeRenderer creates a ReadmeRenderer with GFM extensions. style
// names the chroma style of the stylesheet written by WriteStylesheet.
func NewReadmeRenderer(style string) *ReadmeRenderer {
	if style == "" {
		style = DefaultHighlightStyle
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // colors come from the generated stylesheet
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			// Raw HTML (the snippet annotation comments) is left out.
		),
	)
	return &ReadmeRenderer{md: md, style: style}
}

// Render converts Markdown to HTML. Goldmark has no context support, so
// the conversion runs in a goroutine and ctx only bounds the wait.
func (r *ReadmeRenderer) Render(ctx context.Context, src []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := r.md.Convert(src, &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrReadme, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}

// WriteStylesheet writes the CSS for the highlight classes.
func (r *ReadmeRenderer) WriteStylesheet(w io.Writer) error {
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	return formatter.WriteCSS(w, styles.Get(r.style))
}
