// Package readme extracts annotated C snippets from README.md into a
// generated Unity test source and checks that the README mentions every
// documented function.
//
// A snippet is announced inside an HTML comment and taken from the next
// fenced c code block:
//
//	<!--
//	%TEST_SNIPPET [COMPILE_ONLY] [FILE_SCOPE]
//	%SNIPPET_PROLOGUE extra code placed before the block
//	-->
//
//	```c
//	example code
//	```
//
//	<!--
//	%SNIPPET_EPILOGUE extra code placed after the block
//	-->
//
// COMPILE_ONLY snippets are compiled but not run; FILE_SCOPE snippets are
// not wrapped in a function.
package readme

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/marktsuchida/ssstrdoc/internal/lint"
)

// Annotation keywords.
const (
	DirectiveSnippet  = "%TEST_SNIPPET"
	DirectivePrologue = "%SNIPPET_PROLOGUE"
	DirectiveEpilogue = "%SNIPPET_EPILOGUE"

	FlagCompileOnly = "COMPILE_ONLY"
	FlagFileScope   = "FILE_SCOPE"
)

// Snippet is one annotated code example with its prologue and epilogue
// lines, each ending in a newline.
type Snippet struct {
	Line        int // 1-based line of the %TEST_SNIPPET annotation
	CompileOnly bool
	FileScope   bool
	Lines       []string
}

type eventKind int

const (
	eventSnippet eventKind = iota
	eventPrologue
	eventEpilogue
	eventCode
	eventEOF
)

func (k eventKind) String() string {
	switch k {
	case eventSnippet:
		return "snippet"
	case eventPrologue:
		return "prologue"
	case eventEpilogue:
		return "epilogue"
	case eventCode:
		return "code"
	default:
		return "eof"
	}
}

type event struct {
	kind  eventKind
	line  int
	flags []string // eventSnippet
	text  string   // eventPrologue, eventEpilogue
	code  []string // eventCode
}

// Parse returns the annotated snippets of a Markdown document in order.
func Parse(src []byte) ([]Snippet, error) {
	events, err := scan(src)
	if err != nil {
		return nil, err
	}
	return assemble(events)
}

// scan walks the block tree in document order and emits annotation and
// c code block events.
func scan(src []byte) ([]event, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	lineOf := lineIndex(src)

	var events []event
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.HTMLBlock:
			segs := node.Lines()
			for i := 0; i < segs.Len(); i++ {
				seg := segs.At(i)
				ev, ok, err := annotation(string(seg.Value(src)), lineOf(seg.Start))
				if err != nil {
					return ast.WalkStop, err
				}
				if ok {
					events = append(events, ev)
				}
			}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			if string(node.Language(src)) != "c" {
				return ast.WalkSkipChildren, nil
			}
			ev := event{kind: eventCode, line: lineOf(node.Info.Segment.Start)}
			segs := node.Lines()
			for i := 0; i < segs.Len(); i++ {
				seg := segs.At(i)
				ev.code = append(ev.code, string(seg.Value(src)))
			}
			events = append(events, ev)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return append(events, event{kind: eventEOF, line: lineOf(len(src))}), nil
}

// annotation recognizes one line of an HTML block.
func annotation(line string, lineno int) (event, bool, error) {
	switch {
	case strings.HasPrefix(line, DirectiveSnippet):
		words := strings.Fields(line)
		return event{kind: eventSnippet, line: lineno, flags: words[1:]}, true, nil
	case strings.HasPrefix(line, DirectivePrologue):
		rest, ok := directiveText(line, DirectivePrologue)
		if !ok {
			return event{}, false, lint.Formatf(line, "line %d: %s without code", lineno, DirectivePrologue)
		}
		return event{kind: eventPrologue, line: lineno, text: rest}, true, nil
	case strings.HasPrefix(line, DirectiveEpilogue):
		rest, ok := directiveText(line, DirectiveEpilogue)
		if !ok {
			return event{}, false, lint.Formatf(line, "line %d: %s without code", lineno, DirectiveEpilogue)
		}
		return event{kind: eventEpilogue, line: lineno, text: rest}, true, nil
	}
	return event{}, false, nil
}

// directiveText returns what follows the directive and its separating
// whitespace, keeping the line terminator.
func directiveText(line, directive string) (string, bool) {
	rest := strings.TrimLeft(line[len(directive):], " \t")
	if strings.TrimSpace(rest) == "" || len(rest) == len(line)-len(directive) {
		return "", false
	}
	if !strings.HasSuffix(rest, "\n") {
		rest += "\n"
	}
	return rest, true
}

// assemble groups events into snippets: an annotation, its prologues, the
// required code block, then its epilogues. Unannotated code blocks are
// ignored.
func assemble(events []event) ([]Snippet, error) {
	var snippets []Snippet
	i := 0
	for {
		ev := events[i]
		switch ev.kind {
		case eventEOF:
			return snippets, nil
		case eventCode:
			i++
			continue
		case eventSnippet:
		default:
			return nil, lint.Formatf("", "Expected snippet or end of file; found %s at line %d", ev.kind, ev.line)
		}

		s := Snippet{Line: ev.line}
		for _, flag := range ev.flags {
			switch flag {
			case FlagCompileOnly:
				s.CompileOnly = true
			case FlagFileScope:
				s.FileScope = true
			default:
				return nil, lint.Formatf(flag, "line %d: unknown %s flag", ev.line, DirectiveSnippet)
			}
		}
		i++
		for events[i].kind == eventPrologue {
			s.Lines = append(s.Lines, events[i].text)
			i++
		}
		if events[i].kind != eventCode {
			return nil, lint.Formatf("", "line %d: expected c code block after snippet annotation; found %s at line %d",
				s.Line, events[i].kind, events[i].line)
		}
		s.Lines = append(s.Lines, events[i].code...)
		i++
		for events[i].kind == eventEpilogue {
			s.Lines = append(s.Lines, events[i].text)
			i++
		}
		snippets = append(snippets, s)
	}
}

// lineIndex maps byte offsets of src to 1-based line numbers.
func lineIndex(src []byte) func(offset int) int {
	var starts []int
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return func(offset int) int {
		return sort.SearchInts(starts, offset+1) + 1
	}
}

