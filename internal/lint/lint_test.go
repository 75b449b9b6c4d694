package lint_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/marktsuchida/ssstrdoc/internal/lint"
)

// ---------------------------------------------------------------------------
// TestError_Is - Kind sentinels are reachable through errors.Is
// ---------------------------------------------------------------------------

func TestError_Is(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind lint.Kind
		want error
	}{
		{"format", lint.KindFormat, lint.ErrFormat},
		{"cross-reference", lint.KindCrossRef, lint.ErrCrossRef},
		{"consistency", lint.KindConsistency, lint.ErrConsistency},
		{"external", lint.KindExternal, lint.ErrExternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fmt.Errorf("wrapped: %w", lint.New(tt.kind, "a.3", "rule"))
			if !errors.Is(err, tt.want) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.want)
			}
		})
	}
}

func TestError_UnwrapCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("exit status 1")
	err := &lint.Error{Kind: lint.KindExternal, Path: "x.3", Rule: "groff failed", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("cause should be reachable")
	}
	if !errors.Is(err, lint.ErrExternal) {
		t.Error("kind sentinel should be reachable")
	}
}

// ---------------------------------------------------------------------------
// TestError_Error - Message layout
// ---------------------------------------------------------------------------

func TestError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *lint.Error
		want string
	}{
		{
			name: "rule only",
			err:  &lint.Error{Rule: "no lines"},
			want: "no lines",
		},
		{
			name: "path and content",
			err:  &lint.Error{Path: "man3/ss8_len.3", Rule: "bad line", Content: ".XX foo"},
			want: `man3/ss8_len.3: bad line: ".XX foo"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestInFile - Path attachment
// ---------------------------------------------------------------------------

func TestInFile(t *testing.T) {
	t.Parallel()

	t.Run("nil stays nil", func(t *testing.T) {
		t.Parallel()
		if lint.InFile("a", nil) != nil {
			t.Error("expected nil")
		}
	})

	t.Run("fills missing path", func(t *testing.T) {
		t.Parallel()
		orig := lint.Formatf("", "bad")
		err := lint.InFile("a.3", orig)
		var le *lint.Error
		if !errors.As(err, &le) || le.Path != "a.3" {
			t.Fatalf("got %v, want path a.3", err)
		}
		if orig.Path != "" {
			t.Error("original error must not be mutated")
		}
	})

	t.Run("keeps existing path", func(t *testing.T) {
		t.Parallel()
		err := lint.InFile("b.3", lint.New(lint.KindCrossRef, "a.3", "x"))
		if !strings.HasPrefix(err.Error(), "a.3:") {
			t.Errorf("got %q", err)
		}
	})

	t.Run("wraps foreign error as format", func(t *testing.T) {
		t.Parallel()
		err := lint.InFile("a.3", errors.New("boom"))
		if !errors.Is(err, lint.ErrFormat) {
			t.Errorf("expected format kind, got %v", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestViolations - Aggregation
// ---------------------------------------------------------------------------

func TestViolations(t *testing.T) {
	t.Parallel()

	var v lint.Violations
	if v.Err() != nil {
		t.Fatal("empty violations should produce nil error")
	}

	v.Add(lint.New(lint.KindConsistency, "a.3", "date differs"))
	v.Add(lint.New(lint.KindCrossRef, "b.3", "missing stub"))

	err := v.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, lint.ErrConsistency) || !errors.Is(err, lint.ErrCrossRef) {
		t.Error("all kinds should be reachable")
	}
	if !strings.HasPrefix(err.Error(), "2 violations:") {
		t.Errorf("Error() = %q", err.Error())
	}
}
