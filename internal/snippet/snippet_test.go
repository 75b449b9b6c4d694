package snippet_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/marktsuchida/ssstrdoc/internal/lint"
	"github.com/marktsuchida/ssstrdoc/internal/snippet"
)

// ---------------------------------------------------------------------------
// TestNormalize - Canonical snippet text
// ---------------------------------------------------------------------------

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"collapses whitespace", "ss8str   s;\n\n\tss8_init( &s );\n", "ss8str s; ss8_init( &s );"},
		{"strips comments", "int n = 0; // count\n// whole line\nn++;\n", "int n = 0; n++;"},
		{"rewrites include", "#include \"ss8str.h\"\nint x;\n", "#include <ss8str.h> int x;"},
		{"keeps angle include", "#include <ss8str.h>\n", "#include <ss8str.h>"},
		{"include with extra spaces", "#include   \"ss8str.h\"\n", "#include <ss8str.h>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := snippet.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"ss8str s;\nss8_init(&s);  // init\n\nss8_destroy(&s);\n",
		"#include \"ss8str.h\"\n\nint main(void) {\n    return 0;\n}\n",
		"  a  \n\t b // c // d\n",
		"",
	}
	for _, in := range inputs {
		once := snippet.Normalize(in)
		if twice := snippet.Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestChecksum_WhitespaceAndCommentInsensitive(t *testing.T) {
	t.Parallel()

	opts := snippet.DefaultOptions()
	a := "ss8str s;\nss8_init(&s);\n"
	b := "ss8str    s;\n\n    ss8_init(&s);   // initialize\n"
	if opts.Checksum(a) != opts.Checksum(b) {
		t.Errorf("checksums differ for %q and %q", a, b)
	}
	if opts.Checksum(a) == opts.Checksum("ss8str t;\nss8_init(&t);\n") {
		t.Error("different snippets share a checksum")
	}
	if got := len(opts.Checksum(a).String()); got != 64 {
		t.Errorf("hex checksum length = %d, want 64", got)
	}
}

// ---------------------------------------------------------------------------
// TestExtractSegments - Marker-delimited regions
// ---------------------------------------------------------------------------

func TestExtractSegments(t *testing.T) {
	t.Parallel()

	src := strings.Join([]string{
		"#include <unity.h>",
		"#define SNIPPET",
		"ss8str s;",
		"#undef SNIPPET",
		"static void helper(void) {}",
		"#define SNIPPET",
		"ss8_init(&s);",
		"#undef SNIPPET",
		"",
	}, "\n")

	got, err := snippet.DefaultOptions().ExtractSegments(src)
	if err != nil {
		t.Fatalf("ExtractSegments() error = %v", err)
	}
	if want := "ss8str s;\nss8_init(&s);\n"; got != want {
		t.Errorf("ExtractSegments() = %q, want %q", got, want)
	}
}

func TestExtractSegments_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"no markers", "int main(void) { return 0; }\n"},
		{"empty segment", "#define SNIPPET\n#undef SNIPPET\n"},
		{"unterminated", "#define SNIPPET\nint x;\n"},
		{"indented marker", "  #define SNIPPET\nint x;\n#undef SNIPPET\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := snippet.DefaultOptions().ExtractSegments(tt.src)
			if !errors.Is(err, lint.ErrFormat) {
				t.Errorf("error = %v, want format violation", err)
			}
		})
	}
}

func TestReadTestSnippets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "test_example_a.c")
	bad := filepath.Join(dir, "test_example_b.c")
	if err := os.WriteFile(good, []byte("#define SNIPPET\nint a;\n#undef SNIPPET\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("int b;\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := snippet.DefaultOptions().ReadTestSnippets([]string{good})
	if err != nil {
		t.Fatalf("ReadTestSnippets() error = %v", err)
	}
	if diff := cmp.Diff([]snippet.Candidate{{Path: good, Text: "int a;\n"}}, got); diff != "" {
		t.Errorf("ReadTestSnippets() mismatch (-want +got):\n%s", diff)
	}

	_, err = snippet.DefaultOptions().ReadTestSnippets([]string{good, bad})
	var le *lint.Error
	if !errors.As(err, &le) || le.Path != bad {
		t.Errorf("error = %v, want violation naming %s", err, bad)
	}
}

// ---------------------------------------------------------------------------
// TestReconcile - Matching and diagnostics
// ---------------------------------------------------------------------------

func TestReconcile(t *testing.T) {
	t.Parallel()

	opts := snippet.DefaultOptions()
	candidates := []snippet.Candidate{
		{Path: "a.c", Text: "ss8str s;\nss8_init(&s);\nss8_destroy(&s);\n"},
		{Path: "b.c", Text: "int unrelated_program_text = 42;\n"},
	}
	docs := []snippet.Documented{
		{Path: "man3/ss8_init.3", Text: "ss8str s;\n  ss8_init(&s);  // set up\nss8_destroy(&s);\n"},
		{Path: "man3/ss8_destroy.3", Text: "ss8str s;\nss8_init(&s);\nss8_destroy(&t);\n"},
	}

	r := opts.Reconcile(docs, candidates)
	if len(r.Misses) != 1 {
		t.Fatalf("got %d misses, want 1: %+v", len(r.Misses), r.Misses)
	}
	miss := r.Misses[0]
	if miss.Path != "man3/ss8_destroy.3" {
		t.Errorf("miss path = %q", miss.Path)
	}
	wantClosest := []string{"ss8str s; ss8_init(&s); ss8_destroy(&s);"}
	if diff := cmp.Diff(wantClosest, miss.Closest); diff != "" {
		t.Errorf("Closest mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	if err := r.Write(&buf); err != nil {
		t.Fatal(err)
	}
	want := "Snippet in man3/ss8_destroy.3 (normalized):\n" +
		"ss8str s; ss8_init(&s); ss8_destroy(&t);\n" +
		"Most similar snippet(s) in tests (normalized):\n" +
		"ss8str s; ss8_init(&s); ss8_destroy(&s);\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}

	if !errors.Is(r.Err(), lint.ErrConsistency) {
		t.Errorf("Err() = %v, want consistency violation", r.Err())
	}
}

func TestReconcile_AllMatch(t *testing.T) {
	t.Parallel()

	opts := snippet.DefaultOptions()
	r := opts.Reconcile(
		[]snippet.Documented{{Path: "p", Text: "int x;"}},
		[]snippet.Candidate{{Path: "c", Text: "int   x;\n"}},
	)
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
}

// ---------------------------------------------------------------------------
// TestCloseMatches - Similarity ranking
// ---------------------------------------------------------------------------

func TestCloseMatches(t *testing.T) {
	t.Parallel()

	// Mirrors the classic get_close_matches example.
	got := snippet.CloseMatches("appel", []string{"ape", "apple", "peach", "puppy"}, 3, 0.6)
	if diff := cmp.Diff([]string{"apple", "ape"}, got); diff != "" {
		t.Errorf("CloseMatches() mismatch (-want +got):\n%s", diff)
	}

	if got := snippet.CloseMatches("abc", []string{"xyz"}, 3, 0.6); len(got) != 0 {
		t.Errorf("unrelated candidate matched: %v", got)
	}

	limited := snippet.CloseMatches("aaaa", []string{"aaab", "aaac", "aaad", "aaae"}, 2, 0.6)
	if diff := cmp.Diff([]string{"aaae", "aaad"}, limited); diff != "" {
		t.Errorf("ties should keep the largest texts first (-want +got):\n%s", diff)
	}
}
