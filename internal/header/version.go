package header

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/marktsuchida/ssstrdoc/internal/fileutil"
	"github.com/marktsuchida/ssstrdoc/internal/lint"
)

// VersionLines is how many leading lines CheckVersion searches.
const VersionLines = 5

// VersionLine returns the comment line that must announce version in the
// file named base.
func VersionLine(base, version string) string {
	return fmt.Sprintf(" * %s, version %s", base, version)
}

// CheckVersion requires the version line within the first VersionLines
// lines of the file at path.
func CheckVersion(version, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return err
	}
	want := VersionLine(filepath.Base(path), version)
	lines := fileutil.SplitLines(string(data))
	if len(lines) > VersionLines {
		lines = lines[:VersionLines]
	}
	if slices.Contains(lines, want+"\n") {
		return nil
	}
	return &lint.Error{
		Kind:    lint.KindConsistency,
		Path:    path,
		Rule:    fmt.Sprintf("cannot find in first %d lines", VersionLines),
		Content: want,
	}
}
