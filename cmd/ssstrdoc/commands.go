package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/marktsuchida/ssstrdoc"
	"github.com/marktsuchida/ssstrdoc/internal/assets"
	"github.com/marktsuchida/ssstrdoc/internal/config"
	"github.com/marktsuchida/ssstrdoc/internal/hints"
	"github.com/marktsuchida/ssstrdoc/internal/logging"
)

// runCheckMan handles the checkman command.
func runCheckMan(ctx context.Context, args []string, env *Environment) error {
	var f commonFlags
	fs := buildCheckFlagSet("checkman", &f)
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	dash := fs.ArgsLenAtDash()
	if dash < 1 {
		return usageError("expected <header> <test-sources...> -- <man-pages...>")
	}

	svc, err := newService(env, f, nil)
	if err != nil {
		return err
	}
	pages := pos[dash:]
	if err := svc.CheckMan(ctx, pos[0], pos[1:dash], pages); err != nil {
		return err
	}
	printSuccess(env, f, "%d pages OK", len(pages))
	return nil
}

// runCheckReadme handles the checkreadme command.
func runCheckReadme(ctx context.Context, args []string, env *Environment) error {
	var f commonFlags
	pos, err := parseArgs(buildCheckFlagSet("checkreadme", &f), args)
	if err != nil {
		return err
	}
	if len(pos) < 2 {
		return usageError("expected <generated-test.c> <README.md> <man-pages...>")
	}

	svc, err := newService(env, f, nil)
	if err != nil {
		return err
	}
	if err := svc.CheckReadme(ctx, pos[0], pos[1], pos[2:]); err != nil {
		return err
	}
	printSuccess(env, f, "%s OK, wrote %s", pos[1], pos[0])
	return nil
}

// runCheckVersion handles the checkversion command.
func runCheckVersion(args []string, env *Environment) error {
	var f commonFlags
	pos, err := parseArgs(buildCheckFlagSet("checkversion", &f), args)
	if err != nil {
		return err
	}
	if len(pos) < 1 {
		return usageError("expected <version> <headers...>")
	}

	svc, err := newService(env, f, nil)
	if err != nil {
		return err
	}
	if err := svc.CheckVersion(pos[0], pos[1:]); err != nil {
		return err
	}
	printSuccess(env, f, "%d headers at version %s", len(pos)-1, pos[0])
	return nil
}

// runHTMLMan handles the htmlman command.
func runHTMLMan(ctx context.Context, args []string, env *Environment) error {
	var f htmlFlags
	fs := buildHTMLFlagSet(&f)
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) < 3 {
		return usageError("expected <dest-dir> <groff> <man-pages...>")
	}

	svc, err := newService(env, f.common, func(cfg *config.Config) {
		if fs.Changed("workers") {
			cfg.HTML.Workers = f.workers
		}
		if f.timeout != "" {
			cfg.HTML.Timeout = f.timeout
		}
		if f.assetPath != "" {
			cfg.Assets.BasePath = f.assetPath
		}
		if f.highlightStyle != "" {
			cfg.HTML.HighlightStyle = f.highlightStyle
		}
	})
	if err != nil {
		return err
	}

	groff, err := resolveGroff(env, pos[1])
	if err != nil {
		return err
	}
	sum, err := svc.GenerateHTML(ctx, ssstrdoc.HTMLInput{
		DestDir: pos[0],
		Groff:   groff,
		Pages:   pos[2:],
		Readme:  f.readme,
	})
	if err != nil {
		return err
	}
	printSuccess(env, f.common, "%d pages, %d redirects -> %s", sum.Pages, sum.Redirects, pos[0])
	return nil
}

// runConfig prints the effective configuration.
func runConfig(args []string, env *Environment) error {
	var f commonFlags
	pos, err := parseArgs(buildCheckFlagSet("config", &f), args)
	if err != nil {
		return err
	}
	if len(pos) > 0 {
		return usageError("config takes no arguments")
	}
	cfg, err := resolveConfig(f)
	if err != nil {
		return err
	}
	out, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(out)
	return err
}

// resolveGroff resolves a bare executable name against PATH.
func resolveGroff(env *Environment, groff string) (string, error) {
	if strings.ContainsRune(groff, filepath.Separator) || strings.ContainsRune(groff, '/') {
		return groff, nil
	}
	path, err := env.lookPath(groff)
	if err != nil {
		return "", fmt.Errorf("groff: %w", err)
	}
	return path, nil
}

// resolveConfig loads the config named by --config or SSSTRDOC_CONFIG,
// applies environment overrides, then override, and validates the result.
func resolveConfig(f commonFlags, override ...func(*config.Config)) (*config.Config, error) {
	envCfg := loadEnvConfig()
	name := f.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	for _, fn := range override {
		if fn != nil {
			fn(cfg)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newService builds the service for one command run.
func newService(env *Environment, f commonFlags, override func(*config.Config)) (*ssstrdoc.Service, error) {
	cfg, err := resolveConfig(f, override)
	if err != nil {
		return nil, err
	}
	loader, err := assets.New(cfg.Assets.BasePath)
	if err != nil {
		return nil, err
	}
	log := logging.New(logging.Options{Verbose: f.verbose, Output: env.Stderr})
	if dir := loader.Dir(); dir != "" {
		log.Debug().Str("dir", dir).Msg("asset overrides enabled")
	}

	return ssstrdoc.New(
		ssstrdoc.WithConfig(cfg),
		ssstrdoc.WithLogger(log),
		ssstrdoc.WithReportWriter(env.Stderr),
		ssstrdoc.WithCommandRunner(env.runner()),
		ssstrdoc.WithAssetLoader(loader),
	), nil
}

// printSuccess prints a one-line summary unless --quiet.
func printSuccess(env *Environment, f commonFlags, format string, args ...any) {
	if f.quiet {
		return
	}
	fmt.Fprintf(env.Stdout, format+"\n", args...)
}
