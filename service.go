package ssstrdoc

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/marktsuchida/ssstrdoc/internal/assets"
	"github.com/marktsuchida/ssstrdoc/internal/config"
	"github.com/marktsuchida/ssstrdoc/internal/htmlman"
)

// Service runs the documentation checks and generators with one set of
// conventions.
type Service struct {
	cfg     *config.Config
	log     zerolog.Logger
	reports io.Writer
	runner  htmlman.CommandRunner
	assets  assets.Loader
}

// Option configures a Service.
type Option func(*Service)

// New creates a Service with the default Ssstr conventions.
// Use options to customize behavior (e.g., WithConfig).
func New(opts ...Option) *Service {
	s := &Service{
		cfg:     config.DefaultConfig(),
		log:     zerolog.Nop(),
		reports: os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithConfig replaces the conventions. A nil config keeps the defaults.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLogger sets the logger used for progress tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// WithReportWriter sets where consistency reports are written (default
// os.Stderr).
func WithReportWriter(w io.Writer) Option {
	return func(s *Service) {
		s.reports = w
	}
}

// WithCommandRunner replaces the runner used to invoke groff.
func WithCommandRunner(r htmlman.CommandRunner) Option {
	return func(s *Service) {
		s.runner = r
	}
}

// WithAssetLoader sets the source of HTML templates and styles.
func WithAssetLoader(l assets.Loader) Option {
	return func(s *Service) {
		s.assets = l
	}
}

// Config returns the conventions in use.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// report writes r when it found problems and returns its error.
func (s *Service) report(r interface {
	Write(io.Writer) error
	Err() error
}) error {
	err := r.Err()
	if err == nil {
		return nil
	}
	if werr := r.Write(s.reports); werr != nil {
		return werr
	}
	return err
}
