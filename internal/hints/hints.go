// Package hints maps failures to a short suggestion for the user. A hint
// is appended to the error message as "\n  hint: <text>".
package hints

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/marktsuchida/ssstrdoc/internal/assets"
	"github.com/marktsuchida/ssstrdoc/internal/fileutil"
	"github.com/marktsuchida/ssstrdoc/internal/lint"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// For returns the hint for err, or "" when none applies.
func For(err error) string {
	var le *lint.Error
	switch {
	case err == nil:
		return ""
	case errors.Is(err, exec.ErrNotFound):
		return groffNotFound()
	case errors.Is(err, context.DeadlineExceeded):
		return format("for slow machines, raise --timeout or html.timeout")
	case errors.Is(err, assets.ErrStyleNotFound):
		return available(assets.StyleManpage)
	case errors.Is(err, assets.ErrTemplateNotFound):
		return available(assets.TemplatePage, assets.TemplateRedirect, assets.TemplateReadme)
	case errors.Is(err, os.ErrPermission):
		return format("check parent directory exists and is writable")
	case !errors.As(err, &le):
		return ""
	case strings.Contains(le.Rule, "marker"):
		return format("set header.begin and header.end in the config to match the header")
	case strings.HasPrefix(le.Rule, "broken link to "):
		return format("add the page, or map the name under html.externalLinks")
	}
	return ""
}

// ForConfigNotFound suggests --config, or creating the file in the user
// config directory when that was one of searchedPaths.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), "/ssstrdoc/") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

func groffNotFound() string {
	var parts []string
	if IsInContainer() || os.Getenv("CI") != "" {
		parts = append(parts, "install the groff package in the image")
	}
	parts = append(parts, "pass the full path, checked with 'ssstrdoc doctor --groff /path/to/groff'")
	return format(strings.Join(parts, "; "))
}

func available(names ...string) string {
	return format("available: " + strings.Join(names, ", "))
}

func format(hint string) string {
	return "\n  hint: " + hint
}
