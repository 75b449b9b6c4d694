package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/marktsuchida/ssstrdoc/internal/dateutil"
	"github.com/marktsuchida/ssstrdoc/internal/fileutil"
	"github.com/marktsuchida/ssstrdoc/internal/header"
	"github.com/marktsuchida/ssstrdoc/internal/htmlman"
	"github.com/marktsuchida/ssstrdoc/internal/manpage"
	"github.com/marktsuchida/ssstrdoc/internal/readme"
	"github.com/marktsuchida/ssstrdoc/internal/snippet"
	"github.com/marktsuchida/ssstrdoc/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrFieldRequired   = errors.New("field is required")
	ErrFieldRange      = errors.New("field out of range")
)

// AppName names the user config directory.
const AppName = "ssstrdoc"

// Field length limits.
const (
	MaxNameLength    = 100  // prefixes, page names, tokens
	MaxLineLength    = 200  // sentinel and include lines
	MaxURLLength     = 2048 // external link targets
	MaxSectionLength = 10   // "3", "3ssstr"
	MaxWorkers       = 256
)

// Config holds the project conventions and generator settings.
type Config struct {
	Manual   ManualConfig   `yaml:"manual"`
	Header   HeaderConfig   `yaml:"header"`
	Snippets SnippetsConfig `yaml:"snippets"`
	Readme   ReadmeConfig   `yaml:"readme"`
	HTML     HTMLConfig     `yaml:"html"`
	Assets   AssetsConfig   `yaml:"assets"`
}

// ManualConfig describes the man page conventions.
type ManualConfig struct {
	Prefix       string `yaml:"prefix"`       // prefix of every documented function
	IntroName    string `yaml:"introName"`    // e.g. "ssstr"
	FuncSection  string `yaml:"funcSection"`  // e.g. "3"
	IntroSection string `yaml:"introSection"` // e.g. "7"
	Include      string `yaml:"include"`      // first SYNOPSIS line
	Source       string `yaml:"source"`       // .TH source field
	Title        string `yaml:"title"`        // .TH manual field
	SkipToken    string `yaml:"skipToken"`
	ExemptToken  string `yaml:"exemptToken"`
	DateFormat   string `yaml:"dateFormat"` // preset or YYYY-MM-DD style format; empty disables
}

// HeaderConfig describes the documented-prototype block of the header.
type HeaderConfig struct {
	Begin         string                `yaml:"begin"`
	End           string                `yaml:"end"`
	NoisePrefixes []string              `yaml:"noisePrefixes"`
	Substitutions []header.Substitution `yaml:"substitutions"`
}

// SnippetsConfig controls example reconciliation.
type SnippetsConfig struct {
	IncludeFrom string  `yaml:"includeFrom"`
	IncludeTo   string  `yaml:"includeTo"`
	Begin       string  `yaml:"begin"`
	End         string  `yaml:"end"`
	MaxMatches  int     `yaml:"maxMatches"`
	Cutoff      float64 `yaml:"cutoff"`
}

// ReadmeConfig controls the generated README test source.
type ReadmeConfig struct {
	Includes []string `yaml:"includes"`
}

// HTMLConfig controls HTML generation.
type HTMLConfig struct {
	Workers        int               `yaml:"workers"` // 0 = GOMAXPROCS
	Timeout        string            `yaml:"timeout"` // per groff run, e.g. "30s"; empty = none
	HighlightStyle string            `yaml:"highlightStyle"`
	ExternalLinks  map[string]string `yaml:"externalLinks"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets
}

// DefaultConfig returns the Ssstr conventions.
func DefaultConfig() *Config {
	mc := manpage.DefaultConventions()
	hc := header.DefaultConventions()
	so := snippet.DefaultOptions()

	return &Config{
		Manual: ManualConfig{
			Prefix:       mc.Prefix,
			IntroName:    mc.IntroName,
			FuncSection:  mc.FuncSection,
			IntroSection: mc.IntroSection,
			Include:      mc.Include,
			Source:       mc.Source,
			Title:        mc.Manual,
			SkipToken:    mc.SkipToken,
			ExemptToken:  mc.ExemptToken,
			DateFormat:   "",
		},
		Header: HeaderConfig{
			Begin:         hc.Begin,
			End:           hc.End,
			NoisePrefixes: append([]string(nil), hc.NoisePrefixes...),
			Substitutions: append([]header.Substitution(nil), hc.Substitutions...),
		},
		Snippets: SnippetsConfig{
			IncludeFrom: so.IncludeFrom,
			IncludeTo:   so.IncludeTo,
			Begin:       so.Begin,
			End:         so.End,
			MaxMatches:  so.MaxMatches,
			Cutoff:      so.Cutoff,
		},
		Readme: ReadmeConfig{
			Includes: append([]string(nil), readme.DefaultIncludes...),
		},
		HTML: HTMLConfig{
			HighlightStyle: htmlman.DefaultHighlightStyle,
			ExternalLinks: map[string]string{
				"string(3)":    "https://www.man7.org/linux/man-pages/man3/string.3.html",
				"bstring(3)":   "https://www.man7.org/linux/man-pages/man3/bstring.3.html",
				"sprintf(3)":   "https://www.man7.org/linux/man-pages/man3/snprintf.3.html",
				"vsnprintf(3)": "https://www.man7.org/linux/man-pages/man3/vsnprintf.3.html",
			},
		},
	}
}

// Validate checks required fields, lengths and ranges.
func (c *Config) Validate() error {
	m := c.Manual
	for _, f := range []struct {
		name, value string
	}{
		{"manual.prefix", m.Prefix},
		{"manual.introName", m.IntroName},
		{"manual.funcSection", m.FuncSection},
		{"manual.introSection", m.IntroSection},
		{"header.begin", c.Header.Begin},
		{"header.end", c.Header.End},
		{"snippets.begin", c.Snippets.Begin},
		{"snippets.end", c.Snippets.End},
	} {
		if f.value == "" {
			return fmt.Errorf("%w: %s", ErrFieldRequired, f.name)
		}
	}

	for _, f := range []struct {
		name, value string
		max         int
	}{
		{"manual.prefix", m.Prefix, MaxNameLength},
		{"manual.introName", m.IntroName, MaxNameLength},
		{"manual.funcSection", m.FuncSection, MaxSectionLength},
		{"manual.introSection", m.IntroSection, MaxSectionLength},
		{"manual.include", m.Include, MaxLineLength},
		{"manual.source", m.Source, MaxNameLength},
		{"manual.title", m.Title, MaxNameLength},
		{"manual.skipToken", m.SkipToken, MaxNameLength},
		{"manual.exemptToken", m.ExemptToken, MaxNameLength},
		{"header.begin", c.Header.Begin, MaxLineLength},
		{"header.end", c.Header.End, MaxLineLength},
		{"snippets.begin", c.Snippets.Begin, MaxLineLength},
		{"snippets.end", c.Snippets.End, MaxLineLength},
		{"html.highlightStyle", c.HTML.HighlightStyle, MaxNameLength},
		{"assets.basePath", c.Assets.BasePath, MaxURLLength},
	} {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}
	for ref, url := range c.HTML.ExternalLinks {
		if err := validateFieldLength("html.externalLinks["+ref+"]", url, MaxURLLength); err != nil {
			return err
		}
	}

	if m.FuncSection == m.IntroSection {
		return fmt.Errorf("manual.introSection: must differ from manual.funcSection (%q)", m.FuncSection)
	}
	if _, err := dateutil.Layout(m.DateFormat); err != nil {
		return fmt.Errorf("manual.dateFormat: %w", err)
	}
	if s := c.Snippets; s.MaxMatches < 0 || s.Cutoff < 0 || s.Cutoff > 1 {
		return fmt.Errorf("%w: snippets.maxMatches must be >= 0 and snippets.cutoff between 0 and 1", ErrFieldRange)
	}
	if c.HTML.Workers < 0 || c.HTML.Workers > MaxWorkers {
		return fmt.Errorf("%w: html.workers must be between 0 and %d, got %d", ErrFieldRange, MaxWorkers, c.HTML.Workers)
	}
	if _, err := c.HTMLTimeout(); err != nil {
		return err
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// ManpageConventions returns the validator conventions.
func (c *Config) ManpageConventions() (manpage.Conventions, error) {
	layout, err := dateutil.Layout(c.Manual.DateFormat)
	if err != nil {
		return manpage.Conventions{}, fmt.Errorf("manual.dateFormat: %w", err)
	}
	m := c.Manual
	return manpage.Conventions{
		Prefix:       m.Prefix,
		IntroName:    m.IntroName,
		FuncSection:  m.FuncSection,
		IntroSection: m.IntroSection,
		Include:      m.Include,
		Source:       m.Source,
		Manual:       m.Title,
		SkipToken:    m.SkipToken,
		ExemptToken:  m.ExemptToken,
		DateLayout:   layout,
	}, nil
}

// HeaderConventions returns the prototype extraction conventions.
func (c *Config) HeaderConventions() header.Conventions {
	return header.Conventions{
		Begin:         c.Header.Begin,
		End:           c.Header.End,
		NoisePrefixes: c.Header.NoisePrefixes,
		Substitutions: c.Header.Substitutions,
	}
}

// SnippetOptions returns the example reconciliation options.
func (c *Config) SnippetOptions() snippet.Options {
	s := c.Snippets
	return snippet.Options{
		IncludeFrom: s.IncludeFrom,
		IncludeTo:   s.IncludeTo,
		Begin:       s.Begin,
		End:         s.End,
		MaxMatches:  s.MaxMatches,
		Cutoff:      s.Cutoff,
	}
}

// HTMLTimeout parses html.timeout. Empty means no timeout.
func (c *Config) HTMLTimeout() (time.Duration, error) {
	if c.HTML.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.HTML.Timeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: html.timeout must be a non-negative duration, got %q", ErrFieldRange, c.HTML.Timeout)
	}
	return d, nil
}

// YAML encodes the configuration in the file format LoadConfig reads.
func (c *Config) YAML() ([]byte, error) {
	return yamlutil.Marshal(c)
}

// LoadConfig loads configuration from a file path or config name. Fields
// absent from the file keep their DefaultConfig values.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists where a config name is looked up, in order: the
// working directory, then the user config directory.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppName, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
