package htmlman

import (
	"fmt"
	"regexp"
	"strings"
)

type style int

const (
	styleRoman style = iota
	styleBold
	styleItalic
	styleBoldItalic
	styleEither // "_\b_" reads as bold or italic underscore
)

func (s style) String() string {
	switch s {
	case styleRoman:
		return "roman"
	case styleBold:
		return "bold"
	case styleItalic:
		return "italic"
	case styleBoldItalic:
		return "bold italic"
	default:
		return "bold or italic"
	}
}

var styleTags = map[style][2]string{
	styleRoman:      {"", ""},
	styleBold:       {"<b>", "</b>"},
	styleItalic:     {"<i>", "</i>"},
	styleBoldItalic: {"<b><i>", "</i></b>"},
}

type chunk struct {
	style style
	text  []rune
}

// readChar decodes one possibly overstruck character at pos.
func readChar(text []rune, pos int) (next int, st style, ch rune, err error) {
	end := len(text)
	if text[pos] == '\b' {
		return 0, 0, 0, fmt.Errorf("%w: unexpected backspace at %d", ErrOverprint, pos)
	}
	if pos+1 == end || text[pos+1] != '\b' {
		return pos + 1, styleRoman, text[pos], nil
	}
	if pos+2 >= end {
		return 0, 0, 0, fmt.Errorf("%w: incomplete sequence at end of text", ErrOverprint)
	}
	if text[pos] != '_' {
		if text[pos] != text[pos+2] {
			return 0, 0, 0, fmt.Errorf("%w: incorrect sequence at %d", ErrOverprint, pos)
		}
		return pos + 3, styleBold, text[pos], nil
	}
	switch {
	case pos+3 < end && text[pos+3] == '\b':
		if pos+4 >= end {
			return 0, 0, 0, fmt.Errorf("%w: incomplete sequence at end of text", ErrOverprint)
		}
		if text[pos+2] != text[pos+4] {
			return 0, 0, 0, fmt.Errorf("%w: incorrect sequence at %d", ErrOverprint, pos)
		}
		return pos + 5, styleBoldItalic, text[pos+2], nil
	case text[pos+2] == '_':
		return pos + 3, styleEither, '_', nil
	default:
		return pos + 3, styleItalic, text[pos+2], nil
	}
}

// OverprintToHTML converts terminal output using backspace overstrike
// (x\bx bold, _\bx italic, _\bx\bx bold italic) into an HTML <pre> block.
//
// An overstruck underscore is ambiguous; it joins the bold or italic run
// beside it, and is an error when its neighbors do not settle the style.
func OverprintToHTML(s string) (string, error) {
	text := []rune(s)
	var chunks []chunk
	for pos := 0; pos < len(text); {
		next, st, ch, err := readChar(text, pos)
		if err != nil {
			return "", err
		}
		if n := len(chunks); n > 0 && chunks[n-1].style == st {
			chunks[n-1].text = append(chunks[n-1].text, ch)
		} else {
			chunks = append(chunks, chunk{style: st, text: []rune{ch}})
		}
		pos = next
	}

	chunks, err := mergeUnderscores(chunks)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("<pre>\n")
	for _, c := range chunks {
		tags := styleTags[c.style]
		b.WriteString(tags[0])
		b.WriteString(escapeText(string(c.text)))
		b.WriteString(tags[1])
	}
	b.WriteString("</pre>")
	return b.String(), nil
}

// mergeUnderscores folds every styleEither chunk into a neighboring bold
// or italic chunk.
func mergeUnderscores(chunks []chunk) ([]chunk, error) {
	// plain reports whether index j is outside the slice or roman.
	plain := func(j int) bool {
		return j < 0 || j >= len(chunks) || chunks[j].style == styleRoman
	}
	styleAt := func(j int) string {
		if j < 0 || j >= len(chunks) {
			return "nothing"
		}
		return chunks[j].style.String()
	}
	boldOrItalic := func(j int) bool {
		return !plain(j) && (chunks[j].style == styleBold || chunks[j].style == styleItalic)
	}

	for i := 0; i < len(chunks); i++ {
		if chunks[i].style != styleEither {
			continue
		}
		underscores := chunks[i].text
		switch {
		case plain(i-1) && boldOrItalic(i+1):
			chunks[i+1].text = append(append([]rune{}, underscores...), chunks[i+1].text...)
			chunks = append(chunks[:i], chunks[i+1:]...)
		case plain(i+1) && boldOrItalic(i-1):
			chunks[i-1].text = append(chunks[i-1].text, underscores...)
			chunks = append(chunks[:i], chunks[i+1:]...)
			i--
		case boldOrItalic(i-1) && !plain(i+1) && chunks[i-1].style == chunks[i+1].style:
			chunks[i-1].text = append(append(chunks[i-1].text, underscores...), chunks[i+1].text...)
			chunks = append(chunks[:i], chunks[i+2:]...)
			i--
		default:
			return nil, fmt.Errorf("%w: ambiguous underscore style, flanked by %s and %s",
				ErrOverprint, styleAt(i-1), styleAt(i+1))
		}
	}
	return chunks, nil
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeText(s string) string { return textEscaper.Replace(s) }

var (
	reBoldJoin   = regexp.MustCompile(`</b>( *)<b>`)
	reItalicJoin = regexp.MustCompile(`</i>( *)<i>`)
)

// SimplifyTags drops closing and reopening tags separated only by spaces.
func SimplifyTags(s string) string {
	s = reBoldJoin.ReplaceAllString(s, "$1")
	return reItalicJoin.ReplaceAllString(s, "$1")
}
