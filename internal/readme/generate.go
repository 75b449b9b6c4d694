package readme

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DefaultIncludes are the include lines of the generated test source.
var DefaultIncludes = []string{`"ss8str.h"`, "<unity.h>", "<time.h>"}

// FuncName returns the name of the test function generated for s.
func (s Snippet) FuncName() string {
	return fmt.Sprintf("snippet_at_line_%d", s.Line)
}

// body renders s as a test function, or as file-scope code with a marker
// comment.
func (s Snippet) body() string {
	var b strings.Builder
	if s.FileScope {
		fmt.Fprintf(&b, "// Snippet at line %d\n", s.Line)
	} else {
		fmt.Fprintf(&b, "void %s(void) {\n", s.FuncName())
	}
	for _, l := range s.Lines {
		b.WriteString(l)
	}
	if !s.FileScope {
		b.WriteString("}\n")
	}
	return b.String()
}

// WriteTestSource writes a Unity test program that compiles every snippet
// and runs those not marked compile-only.
func WriteTestSource(w io.Writer, snippets []Snippet, includes []string) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("// Generated file, do not edit\n")
	for _, inc := range includes {
		fmt.Fprintf(bw, "#include %s\n", inc)
	}
	bw.WriteString("\nvoid setUp(void) {}\nvoid tearDown(void) {}\n")
	for _, s := range snippets {
		fmt.Fprintf(bw, "\n%s\n", s.body())
	}
	bw.WriteString("\nint main() { UNITY_BEGIN();\n")
	for _, s := range snippets {
		if !s.CompileOnly {
			fmt.Fprintf(bw, "RUN_TEST(%s);\n", s.FuncName())
		}
	}
	bw.WriteString("return UNITY_END(); }\n")
	return bw.Flush()
}
