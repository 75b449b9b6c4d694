package roff_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/marktsuchida/ssstrdoc/internal/lint"
	"github.com/marktsuchida/ssstrdoc/internal/roff"
)

const initPage = `.\" This file is part of the Ssstr string library.
.\" SPDX-License-Identifier: MIT
.TH SS8_INIT 3 2022-07-01 SSSTR "Ssstr Manual"
.SH NAME
ss8_init, ss8_init_copy \- initialize
.SH SYNOPSIS
.nf
.B #include <ss8str.h>
.fi
.SH SEE ALSO
.BR ssstr (7)
`

// ---------------------------------------------------------------------------
// TestParse_FullPage - Title header and section split
// ---------------------------------------------------------------------------

func TestParse_FullPage(t *testing.T) {
	t.Parallel()

	page, err := roff.Parse("man3/ss8_init.3", []byte(initPage))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	pp, ok := page.(*roff.ParsedPage)
	if !ok {
		t.Fatalf("Parse() returned %T, want *roff.ParsedPage", page)
	}

	wantID := roff.Ident{Path: "man3/ss8_init.3", Name: "ss8_init", Section: "3"}
	if pp.ID() != wantID {
		t.Errorf("ID() = %+v, want %+v", pp.ID(), wantID)
	}

	wantHeader := roff.Header{
		Title:   "SS8_INIT",
		Section: "3",
		Date:    "2022-07-01",
		Source:  "SSSTR",
		Manual:  "Ssstr Manual",
	}
	if diff := cmp.Diff(wantHeader, pp.Header); diff != "" {
		t.Errorf("Header mismatch (-want +got):\n%s", diff)
	}

	wantSections := []roff.Section{
		{Heading: "NAME", Lines: []string{`ss8_init, ss8_init_copy \- initialize`}},
		{Heading: "SYNOPSIS", Lines: []string{".nf", ".B #include <ss8str.h>", ".fi"}},
		{Heading: "SEE ALSO", Lines: []string{".BR ssstr (7)"}},
	}
	if diff := cmp.Diff(wantSections, pp.Sections); diff != "" {
		t.Errorf("Sections mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestParse_SoPage - Redirect stubs
// ---------------------------------------------------------------------------

func TestParse_SoPage(t *testing.T) {
	t.Parallel()

	page, err := roff.Parse("man3/ss8_init_copy.3", []byte(".\\\" comment\n.so man3/ss8_init.3\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	so, ok := page.(*roff.SoPage)
	if !ok {
		t.Fatalf("Parse() returned %T, want *roff.SoPage", page)
	}
	if so.Target != "man3/ss8_init.3" {
		t.Errorf("Target = %q", so.Target)
	}
	if so.Name != "ss8_init_copy" || so.Section != "3" {
		t.Errorf("Ident = %+v", so.Ident)
	}
}

// ---------------------------------------------------------------------------
// TestParse_Errors - Structural violations
// ---------------------------------------------------------------------------

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		content string
	}{
		{"empty file", "a.3", ""},
		{"no trailing newline", "a.3", ".so man3/b.3"},
		{"only comments", "a.3", ".\\\" one\n.\\\" two\n"},
		{"so with two targets", "a.3", ".so man3/b.3 man3/c.3\n"},
		{"so with trailing content", "a.3", ".so man3/b.3\n.SH NAME\n"},
		{"neither so nor TH", "a.3", ".SH NAME\n"},
		{"TH with four fields", "a.3", ".TH A 3 2022-01-01 SSSTR\n"},
		{"TH with unclosed quote", "a.3", ".TH A 3 2022-01-01 SSSTR \"Ssstr Manual\n"},
		{"content before first section", "a.3", ".TH A 3 d SSSTR \"Ssstr Manual\"\n.PP\n"},
		{"section without heading", "a.3", ".TH A 3 d SSSTR \"Ssstr Manual\"\n.SH\n"},
		{"bad file name", "a", ".so man3/b.3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := roff.Parse(tt.path, []byte(tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, lint.ErrFormat) {
				t.Errorf("error %v is not a format violation", err)
			}
		})
	}
}

func TestReadPage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "ss8_init.3")
	if err := os.WriteFile(path, []byte(initPage), 0o644); err != nil {
		t.Fatal(err)
	}

	page, err := roff.ReadPage(path)
	if err != nil {
		t.Fatalf("ReadPage() error = %v", err)
	}
	if page.ID().Path != path {
		t.Errorf("Path = %q, want %q", page.ID().Path, path)
	}

	if _, err := roff.ReadPage(filepath.Join(dir, "missing.3")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}

// ---------------------------------------------------------------------------
// TestSplitSections - Subsection splitting
// ---------------------------------------------------------------------------

func TestSplitSections(t *testing.T) {
	t.Parallel()

	lines := []string{".SS Initialization", "a", ".SS Length", ".SS Copy", "b", "c"}
	got, err := roff.SplitSections(lines, roff.RequestSubsection)
	if err != nil {
		t.Fatalf("SplitSections() error = %v", err)
	}
	want := []roff.Section{
		{Heading: "Initialization", Lines: []string{"a"}},
		{Heading: "Length"},
		{Heading: "Copy", Lines: []string{"b", "c"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SplitSections() mismatch (-want +got):\n%s", diff)
	}
}
