// Package dateutil converts human date formats such as YYYY-MM-DD into Go
// time layouts and checks page dates against them.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for date handling.
var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrDateMismatch      = errors.New("date does not match format")
)

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// DefaultDateFormat is the format of .TH dates in the Ssstr manual.
const DefaultDateFormat = "YYYY-MM-DD"

// dateTokens maps format tokens to Go layout components, longest first so
// that matching is greedy.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// ParseDateFormat converts a format string to a Go time layout.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D. Text in brackets is copied
// literally ("[on] D" keeps "on"), as is any other character.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var layout strings.Builder
	rest := format
	for rest != "" {
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, len(format)-len(rest))
			}
			layout.WriteString(rest[1:end])
			rest = rest[end+1:]
			continue
		}
		n := 1
		lit := rest[:1]
		for _, t := range dateTokens {
			if strings.HasPrefix(rest, t.token) {
				n, lit = len(t.token), t.goFmt
				break
			}
		}
		layout.WriteString(lit)
		rest = rest[n:]
	}
	return layout.String(), nil
}

// Layout resolves a preset name or format string to a Go layout. An empty
// format yields an empty layout, which disables date checks.
func Layout(format string) (string, error) {
	if format == "" {
		return "", nil
	}
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}
	return ParseDateFormat(format)
}

// Check reports whether value parses with layout. An empty layout accepts
// anything.
func Check(value, layout string) error {
	if layout == "" {
		return nil
	}
	if _, err := time.Parse(layout, value); err != nil {
		return fmt.Errorf("%w: %q (layout %s)", ErrDateMismatch, value, layout)
	}
	return nil
}
