package ssstrdoc_test

// Notes:
// - The fixture is a small but complete manual: two function pages, one
//   stub, the introduction, a header and an example test. Each failure
//   case breaks exactly one file of it.
// - groff is never run; GenerateHTML is exercised through a fake runner.

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marktsuchida/ssstrdoc"
	"github.com/marktsuchida/ssstrdoc/internal/config"
	"github.com/marktsuchida/ssstrdoc/internal/lint"
)

const initPage = `.TH SS8_INIT 3 2022-07-01 SSSTR "Ssstr Manual"
.SH NAME
ss8_init, ss8_init_copy \- initialize a string
.SH SYNOPSIS
.nf
.B #include <ss8str.h>
.PP
.BI "void ss8_init(ss8str *" str ");"
.PP
.BI "ss8str *ss8_init_copy(ss8str *restrict " dest ","
.BI "                      const ss8str *restrict " src ");"
.fi
.SH DESCRIPTION
Initializes a string.
.SH RETURN VALUE
Returns dest.
.SH EXAMPLES
.nf
.EX
ss8str s;
ss8_init(&s);
ss8_destroy(&s);
.EE
.fi
.SH SEE ALSO
.BR ss8_destroy (3),
.BR ssstr (7)
`

const destroyPage = `.TH SS8_DESTROY 3 2022-07-01 SSSTR "Ssstr Manual"
.SH NAME
ss8_destroy \- destroy a string
.SH SYNOPSIS
.nf
.B #include <ss8str.h>
.PP
.BI "void ss8_destroy(ss8str *" str ");"
.fi
.SH DESCRIPTION
Frees the buffer.
.SH SEE ALSO
.BR ss8_init (3),
.BR ssstr (7)
`

const introPage = `.TH SSSTR 7 2022-07-01 SSSTR "Ssstr Manual"
.SH NAME
ssstr \- Ssstr string library
.SH SYNOPSIS
.nf
.B #include <ss8str.h>
.fi
.SH DESCRIPTION
Ssstr is a small string library.
.SH FUNCTIONS
.SS Initialization and destruction
.BR ss8_init (3),
.BR ss8_init_copy (3),
.BR ss8_destroy (3)
.SH SEE ALSO
.BR string (3)
`

const headerFile = `/*
 * ss8str.h, version 1.2.0
 */
///// BEGIN_DOCUMENTED_PROTOTYPES
SSSTR_INLINE void ss8_init(ss8str *str);
SSSTR_INLINE ss8str *ss8_init_copy(ss8str *SSSTR_RESTRICT dest,
                                   const ss8str *SSSTR_RESTRICT src);
void ss8_destroy(ss8str *str);
///// END_DOCUMENTED_PROTOTYPES
`

const exampleTest = `#include "ss8str.h"
void test_init(void) {
#define SNIPPET
    ss8str s;
    ss8_init(&s);  // start
    ss8_destroy(&s);
#undef SNIPPET
}
`

type manual struct {
	dir    string
	header string
	tests  []string
	pages  []string
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// newManual writes the fixture; overrides replace files by relative path.
func newManual(t *testing.T, overrides map[string]string) *manual {
	t.Helper()
	files := map[string]string{
		"include/ss8str.h":     headerFile,
		"test/test_examples.c": exampleTest,
		"man3/ss8_init.3":      initPage,
		"man3/ss8_init_copy.3": ".so man3/ss8_init.3\n",
		"man3/ss8_destroy.3":   destroyPage,
		"man7/ssstr.7":         introPage,
	}
	for k, v := range overrides {
		files[k] = v
	}
	m := &manual{dir: t.TempDir()}
	for rel, content := range files {
		writeFile(t, filepath.Join(m.dir, rel), content)
	}
	m.header = filepath.Join(m.dir, "include", "ss8str.h")
	m.tests = []string{filepath.Join(m.dir, "test", "test_examples.c")}
	for _, rel := range []string{"man3/ss8_init.3", "man3/ss8_init_copy.3", "man3/ss8_destroy.3", "man7/ssstr.7"} {
		m.pages = append(m.pages, filepath.Join(m.dir, rel))
	}
	return m
}

// ---------------------------------------------------------------------------
// TestCheckMan - Full manual check
// ---------------------------------------------------------------------------

func TestCheckMan(t *testing.T) {
	t.Parallel()

	m := newManual(t, nil)
	var reports bytes.Buffer
	svc := ssstrdoc.New(ssstrdoc.WithReportWriter(&reports))
	if err := svc.CheckMan(context.Background(), m.header, m.tests, m.pages); err != nil {
		t.Fatalf("CheckMan() error = %v\n%s", err, reports.String())
	}
	if reports.Len() != 0 {
		t.Errorf("unexpected report output:\n%s", reports.String())
	}
}

func TestCheckMan_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		overrides  map[string]string
		wantErr    error
		wantReport string
	}{
		{
			name:      "page format",
			overrides: map[string]string{"man3/ss8_destroy.3": strings.Replace(destroyPage, "SSSTR \"Ssstr", "SSTR \"Ssstr", 1)},
			wantErr:   lint.ErrFormat,
		},
		{
			name:      "stub without page",
			overrides: map[string]string{"man3/ss8_init_copy.3": ".so man3/ss8_copy.3\n"},
			wantErr:   lint.ErrCrossRef,
		},
		{
			name: "undocumented prototype",
			overrides: map[string]string{"include/ss8str.h": strings.Replace(headerFile,
				"///// END", "void ss8_clear(ss8str *str);\n///// END", 1)},
			wantErr:    lint.ErrConsistency,
			wantReport: "1 prototypes not in man pages:\nvoid ss8_clear(ss8str *str);\n",
		},
		{
			name:       "example without test",
			overrides:  map[string]string{"test/test_examples.c": "#define SNIPPET\nss8str s;\n#undef SNIPPET\n"},
			wantErr:    lint.ErrConsistency,
			wantReport: "Snippet in ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newManual(t, tt.overrides)
			var reports bytes.Buffer
			svc := ssstrdoc.New(ssstrdoc.WithReportWriter(&reports))
			err := svc.CheckMan(context.Background(), m.header, m.tests, m.pages)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(reports.String(), tt.wantReport) {
				t.Errorf("report = %q, want %q", reports.String(), tt.wantReport)
			}
		})
	}
}

func TestCheckMan_MissingInputs(t *testing.T) {
	t.Parallel()

	svc := ssstrdoc.New()
	if err := svc.CheckMan(context.Background(), "", nil, []string{"x.3"}); !errors.Is(err, ssstrdoc.ErrNoHeader) {
		t.Errorf("error = %v, want ErrNoHeader", err)
	}
	if err := svc.CheckMan(context.Background(), "h", nil, nil); !errors.Is(err, ssstrdoc.ErrNoPages) {
		t.Errorf("error = %v, want ErrNoPages", err)
	}
}

func TestCheckMan_CustomPrefix(t *testing.T) {
	t.Parallel()

	m := newManual(t, nil)
	cfg := config.DefaultConfig()
	cfg.Manual.Prefix = "ss16_"
	svc := ssstrdoc.New(ssstrdoc.WithConfig(cfg), ssstrdoc.WithReportWriter(&bytes.Buffer{}))
	if err := svc.CheckMan(context.Background(), m.header, m.tests, m.pages); !errors.Is(err, lint.ErrFormat) {
		t.Errorf("error = %v, want format violation for foreign prefix", err)
	}
}

// ---------------------------------------------------------------------------
// TestCheckReadme - Snippet test generation and mentions
// ---------------------------------------------------------------------------

const readmeText = "# Ssstr\n\nCall ss8_init() or ss8_init_copy(), then ss8_destroy().\n\n" +
	"<!--\n%TEST_SNIPPET\n-->\n\n```c\nss8str s;\nss8_init(&s);\nss8_destroy(&s);\n```\n"

func TestCheckReadme(t *testing.T) {
	t.Parallel()

	m := newManual(t, map[string]string{"README.md": readmeText})
	out := filepath.Join(m.dir, "test", "test_readme.c")
	var reports bytes.Buffer
	svc := ssstrdoc.New(ssstrdoc.WithReportWriter(&reports))
	if err := svc.CheckReadme(context.Background(), out, filepath.Join(m.dir, "README.md"), m.pages); err != nil {
		t.Fatalf("CheckReadme() error = %v\n%s", err, reports.String())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"// Generated file, do not edit\n", "void snippet_at_line_6(void) {", "RUN_TEST(snippet_at_line_6);"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("test source missing %q:\n%s", want, data)
		}
	}
}

func TestCheckReadme_Unmentioned(t *testing.T) {
	t.Parallel()

	text := strings.Replace(readmeText, " or ss8_init_copy()", "", 1)
	m := newManual(t, map[string]string{"README.md": text})
	readme := filepath.Join(m.dir, "README.md")
	out := filepath.Join(m.dir, "test", "test_readme.c")
	var reports bytes.Buffer
	svc := ssstrdoc.New(ssstrdoc.WithReportWriter(&reports))
	err := svc.CheckReadme(context.Background(), out, readme, m.pages)
	if !errors.Is(err, lint.ErrConsistency) {
		t.Fatalf("error = %v, want consistency violation", err)
	}
	if want := "Functions not mentioned in " + readme + ":\nss8_init_copy()\n"; reports.String() != want {
		t.Errorf("report = %q, want %q", reports.String(), want)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("test source not written: %v", err)
	}
}

func TestCheckReadme_MissingReadme(t *testing.T) {
	t.Parallel()

	svc := ssstrdoc.New()
	err := svc.CheckReadme(context.Background(), filepath.Join(t.TempDir(), "t.c"), filepath.Join(t.TempDir(), "README.md"), nil)
	if !errors.Is(err, ssstrdoc.ErrReadReadme) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want ErrReadReadme wrapping os.ErrNotExist", err)
	}
}

// ---------------------------------------------------------------------------
// TestCheckVersion - Version banner
// ---------------------------------------------------------------------------

func TestCheckVersion(t *testing.T) {
	t.Parallel()

	m := newManual(t, nil)
	svc := ssstrdoc.New()
	if err := svc.CheckVersion("1.2.0", []string{m.header}); err != nil {
		t.Errorf("CheckVersion(1.2.0) error = %v", err)
	}

	other := filepath.Join(m.dir, "include", "other.h")
	writeFile(t, other, "/*\n * other.h, version 1.1.0\n */\n")
	err := svc.CheckVersion("1.2.0", []string{m.header, other})
	var v lint.Violations
	if !errors.As(err, &v) || len(v) != 1 || v[0].Path != other {
		t.Errorf("error = %v, want one violation for %s", err, other)
	}

	if err := svc.CheckVersion("", []string{m.header}); !errors.Is(err, ssstrdoc.ErrNoVersion) {
		t.Errorf("error = %v, want ErrNoVersion", err)
	}
	if err := svc.CheckVersion("1.2.0", []string{filepath.Join(m.dir, "nope.h")}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

// ---------------------------------------------------------------------------
// TestGenerateHTML - Configuration reaches the generator
// ---------------------------------------------------------------------------

type fakeGroff struct{}

func (fakeGroff) Run(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
	base := filepath.Base(args[len(args)-1])
	ext := filepath.Ext(base)
	title := strings.ToUpper(strings.TrimSuffix(base, ext)) + "(" + ext[1:] + ")"
	return []byte(title + "     Ssstr Manual     " + title + "\n"), nil, nil
}

func TestGenerateHTML(t *testing.T) {
	t.Parallel()

	m := newManual(t, nil)
	dest := filepath.Join(m.dir, "html")
	cfg := config.DefaultConfig()
	cfg.HTML.Timeout = "5s"
	svc := ssstrdoc.New(ssstrdoc.WithConfig(cfg), ssstrdoc.WithCommandRunner(fakeGroff{}))

	summary, err := svc.GenerateHTML(context.Background(), ssstrdoc.HTMLInput{
		DestDir: dest,
		Groff:   "groff",
		Pages:   m.pages,
	})
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}
	if summary.Pages != 3 || summary.Redirects != 1 {
		t.Errorf("summary = %+v, want 3 pages and 1 redirect", summary)
	}
	data, err := os.ReadFile(filepath.Join(dest, "man3", "ss8_init.3.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `<a href="../man7/ssstr.7.html">Ssstr Manual</a>`) {
		t.Errorf("page header not linked to intro:\n%s", data)
	}

	cfg.HTML.Timeout = "later"
	if _, err := svc.GenerateHTML(context.Background(), ssstrdoc.HTMLInput{DestDir: dest, Groff: "groff", Pages: m.pages}); !errors.Is(err, config.ErrFieldRange) {
		t.Errorf("error = %v, want ErrFieldRange", err)
	}
}
