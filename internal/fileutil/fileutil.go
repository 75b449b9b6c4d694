// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrInvalidManName = errors.New("man page file name must be <name>.<section>")
	ErrEmptyDir       = errors.New("directory path cannot be empty")
)

// File permission constants.
const (
	DirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	FilePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// SplitManName splits the base name of a man page path into its name and
// section. "man3/ss8_len.3" yields ("ss8_len", "3").
func SplitManName(path string) (name, section string, err error) {
	base := filepath.Base(path)
	parts := strings.Split(base, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidManName, base)
	}
	return parts[0], parts[1], nil
}

// SplitLines splits s after each newline, keeping the terminators.
// A final line without a terminator is returned as is.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// ReadLines reads a file and splits it with SplitLines.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- paths come from the command line
	if err != nil {
		return nil, err
	}
	return SplitLines(string(data)), nil
}

// WriteFile writes content to path, creating parent directories as needed.
func WriteFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPermissions); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), FilePermissions); err != nil { // #nosec G306 -- generated output is world-readable
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ResetDir removes dir if it exists and recreates it empty, together with
// the given subdirectories.
func ResetDir(dir string, subdirs ...string) error {
	if dir == "" {
		return ErrEmptyDir
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	for _, sub := range subdirs {
		if err := os.Mkdir(filepath.Join(dir, sub), DirPermissions); err != nil {
			return fmt.Errorf("creating %s: %w", sub, err)
		}
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "ssstrdoc" -> false (name)
//   - "./ssstrdoc.yaml" -> true (relative path)
//   - "/etc/ssstrdoc.yaml" -> true (absolute)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
