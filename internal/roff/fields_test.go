package roff_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/marktsuchida/ssstrdoc/internal/roff"
)

// ---------------------------------------------------------------------------
// TestSplitFields - Non-POSIX quote-aware splitting
// ---------------------------------------------------------------------------

func TestSplitFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		line    string
		want    []string
		wantErr error
	}{
		{
			name: "title request",
			line: `.TH SS8_INIT 3 2022-07-01 SSSTR "Ssstr Manual"`,
			want: []string{".TH", "SS8_INIT", "3", "2022-07-01", "SSSTR", `"Ssstr Manual"`},
		},
		{
			name: "synopsis fragments",
			line: `"ss8str *ss8_init(ss8str *" str ");"`,
			want: []string{`"ss8str *ss8_init(ss8str *"`, "str", `");"`},
		},
		{
			name: "quote closes token",
			line: `"a"b`,
			want: []string{`"a"`, "b"},
		},
		{
			name: "quote inside bare word",
			line: `a"b c`,
			want: []string{`a"b`, "c"},
		},
		{
			name: "empty quoted",
			line: `x "" y`,
			want: []string{"x", `""`, "y"},
		},
		{
			name: "tabs separate",
			line: "a\tb",
			want: []string{"a", "b"},
		},
		{
			name:    "unclosed quote",
			line:    `a "b c`,
			wantErr: roff.ErrUnclosedQuote,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := roff.SplitFields(tt.line)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SplitFields(%q) error = %v, want %v", tt.line, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SplitFields(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestUnquote(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		`"Ssstr Manual"`: "Ssstr Manual",
		"SSSTR":          "SSSTR",
		`"`:              `"`,
		`""`:             "",
	}
	for in, want := range tests {
		if got := roff.Unquote(in); got != want {
			t.Errorf("Unquote(%q) = %q, want %q", in, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestUnescapeExample - \(rs handling
// ---------------------------------------------------------------------------

func TestUnescapeExample(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{"no escapes", "puts(s);\n", "puts(s);\n", nil},
		{"reverse solidus", `printf("\(rsn");`, `printf("\n");`, nil},
		{"other escape rejected", `x = \(em;`, "", roff.ErrUnsupportedEscape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := roff.UnescapeExample(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("UnescapeExample(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
