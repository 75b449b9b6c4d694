package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/marktsuchida/ssstrdoc/internal/logging"
)

// ---------------------------------------------------------------------------
// TestNew - Level selection and output
// ---------------------------------------------------------------------------

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"quiet by default", false, false},
		{"verbose shows debug", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			l := logging.New(logging.Options{Verbose: tt.verbose, JSON: true, Output: &buf})
			l.Debug().Msg("rendering")
			if got := strings.Contains(buf.String(), "rendering"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v (output %q)", got, tt.wantDebug, buf.String())
			}

			buf.Reset()
			l.Warn().Msg("slow groff")
			if !strings.Contains(buf.String(), "slow groff") {
				t.Errorf("warning not logged: %q", buf.String())
			}
		})
	}
}

func TestWithComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := logging.WithComponent(logging.New(logging.Options{Verbose: true, JSON: true, Output: &buf}), "htmlman")
	l.Info().Msg("done")
	if !strings.Contains(buf.String(), `"component":"htmlman"`) {
		t.Errorf("component field missing: %q", buf.String())
	}
}
