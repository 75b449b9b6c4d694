package htmlman_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/marktsuchida/ssstrdoc/internal/htmlman"
	"github.com/marktsuchida/ssstrdoc/internal/lint"
)

// bold overstrikes every character of s with itself, as groff -c does.
func bold(s string) string {
	var b strings.Builder
	for _, r := range s {
		b.WriteRune(r)
		b.WriteByte('\b')
		b.WriteRune(r)
	}
	return b.String()
}

// italic underlines every character of s.
func italic(s string) string {
	var b strings.Builder
	for _, r := range s {
		b.WriteString("_\b")
		b.WriteRune(r)
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// TestOverprintToHTML - Overstrike decoding
// ---------------------------------------------------------------------------

func TestOverprintToHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text is escaped", "a<b & c>", "a&lt;b &amp; c&gt;"},
		{"bold", bold("NAME"), "<b>NAME</b>"},
		{"italic", italic("str"), "<i>str</i>"},
		{"bold italic", "_\bx\bx", "<b><i>x</i></b>"},
		{"mixed runs", "x " + bold("ss8") + " " + italic("dest"), "x <b>ss8</b> <i>dest</i>"},
		{"underscore inside bold", bold("ss8_len"), "<b>ss8_len</b>"},
		{"underscore inside italic", italic("a_b"), "<i>a_b</i>"},
		{"leading underscore joins right", "_\b_" + bold("a"), "<b>_a</b>"},
		{"trailing underscore joins left", italic("x") + "_\b_ ", "<i>x_</i> "},
		{"escaped inside bold", bold("<"), "<b>&lt;</b>"},
		{"non-ascii", bold("‐") + "é", "<b>‐</b>é"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := htmlman.OverprintToHTML(tt.in)
			if err != nil {
				t.Fatalf("OverprintToHTML() error = %v", err)
			}
			if diff := cmp.Diff("<pre>\n"+tt.want+"</pre>", got); diff != "" {
				t.Errorf("OverprintToHTML() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOverprintToHTML_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
	}{
		{"leading backspace", "\bx"},
		{"incomplete at end", "a\b"},
		{"incomplete bold italic", "_\bx\b"},
		{"mismatched bold", "a\bb"},
		{"mismatched bold italic", "_\bx\by"},
		{"lone underscore", "_\b_"},
		{"underscore between roman", "a_\b_b"},
		{"underscore between bold and italic", bold("x") + "_\b_" + italic("y")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := htmlman.OverprintToHTML(tt.in); !errors.Is(err, htmlman.ErrOverprint) {
				t.Errorf("error = %v, want ErrOverprint", err)
			}
		})
	}
}

func TestSimplifyTags(t *testing.T) {
	t.Parallel()

	in := "<b>ss8_init</b> <b>ss8_destroy</b>, <i>a</i>  <i>b</i>"
	want := "<b>ss8_init ss8_destroy</b>, <i>a  b</i>"
	if got := htmlman.SimplifyTags(in); got != want {
		t.Errorf("SimplifyTags() = %q, want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestHyperlink - Reference linking
// ---------------------------------------------------------------------------

var testLinks = htmlman.Links{
	"ss8_init(3)":         "../man3/ss8_init.3.html",
	"ss8_copy_to_cstr(3)": "../man3/ss8_copy_to_cstr.3.html",
	"ssstr(7)":            "../man7/ssstr.7.html",
}

func TestHyperlink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "simple reference",
			in:   "see <b>ss8_init</b>(3).",
			want: `see <a href="../man3/ss8_init.3.html"><b>ss8_init</b>(3)</a>.`,
		},
		{
			name: "hyphenated reference",
			in:   "<b>ss8_copy_to_‐</b>\n       <b>cstr</b>(3)",
			want: `<a href="../man3/ss8_copy_to_cstr.3.html"><b>ss8_copy_to_` + "‐</a>\n" +
				`       <a href="../man3/ss8_copy_to_cstr.3.html">cstr</b>(3)</a>`,
		},
		{
			name: "bold text without section is left alone",
			in:   "<b>NAME</b>\n",
			want: "<b>NAME</b>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := testLinks.Hyperlink(tt.in)
			if err != nil {
				t.Fatalf("Hyperlink() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Hyperlink() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHyperlink_Broken(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"<b>ss8_nope</b>(3)",
		"<b>ss8_no‐</b>\n    <b>pe</b>(3)",
	} {
		_, err := testLinks.Hyperlink(in)
		if !errors.Is(err, lint.ErrCrossRef) {
			t.Errorf("Hyperlink(%q) error = %v, want cross-reference violation", in, err)
			continue
		}
		if !strings.Contains(err.Error(), "broken link to ss8_nope(3)") {
			t.Errorf("error = %q, want broken link message", err)
		}
	}
}

func TestHyperlinkHeader(t *testing.T) {
	t.Parallel()

	in := "<pre>\nSS8_INIT(3)      Ssstr Manual      SS8_INIT(3)\n\nbody\n</pre>"
	got, err := testLinks.HyperlinkHeader(in, "Ssstr Manual", "ssstr(7)")
	if err != nil {
		t.Fatal(err)
	}
	want := "<pre>\nSS8_INIT(3)      <a href=\"../man7/ssstr.7.html\">Ssstr Manual</a>      SS8_INIT(3)\n\nbody\n</pre>"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("HyperlinkHeader() mismatch (-want +got):\n%s", diff)
	}

	if _, err := (htmlman.Links{}).HyperlinkHeader(in, "Ssstr Manual", "ssstr(7)"); !errors.Is(err, lint.ErrCrossRef) {
		t.Errorf("missing intro link error = %v", err)
	}
}
