package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	trello2pdf "github.com/alnah/go-trello2pdf"
	"github.com/alnah/go-trello2pdf/internal/config"
	"github.com/alnah/go-trello2pdf/internal/hints"
	"github.com/alnah/go-trello2pdf/internal/log"
)

// Sentinel errors for the convert command.
var (
	ErrNoInput        = errors.New("missing required --txt")
	ErrInvalidFlags   = errors.New("invalid flags")
	ErrUnexpectedArgs = errors.New("unexpected arguments")
)

// cardConverter is the part of *trello2pdf.Converter the CLI drives.
type cardConverter interface {
	Convert(ctx context.Context, in trello2pdf.Input) (*trello2pdf.Result, error)
	Close() error
}

var _ cardConverter = (*trello2pdf.Converter)(nil)

// runConvertCmd parses flags, runs one conversion (or a watch loop) and
// returns the exit code.
func runConvertCmd(ctx context.Context, args []string, env *Environment) int {
	f, positional, err := parseConvertFlags(args, env.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	} else {
		err = runConvert(ctx, f, positional, env)
	}

	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		if code := exitCodeFor(err); code == ExitUsage && !errors.Is(err, config.ErrConfigNotFound) {
			fmt.Fprintln(env.Stderr)
			printConvertUsage(env.Stderr)
			return code
		}
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runConvert resolves configuration and drives the converter.
func runConvert(ctx context.Context, f *convertFlags, positional []string, env *Environment) error {
	if len(positional) > 0 {
		return fmt.Errorf("%w: %s", ErrUnexpectedArgs, strings.Join(positional, " "))
	}
	if strings.TrimSpace(f.txt) == "" {
		return ErrNoInput
	}

	if !f.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	envCfg := loadEnvConfig()
	cfg, err := resolveConfig(f.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(f, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.New(env.Stderr, logLevel(f.common))
	creds := trello2pdf.NewCredentials(envCfg.TrelloKey, envCfg.TrelloToken)
	if _, ok := creds.Header(); !ok && (creds.Key != "" || creds.Token != "") {
		logger.Warn("Trello credentials incomplete, downloading without auth", "credentials", creds)
	}

	// Child processes write their diagnostics (pandoc and LaTeX warnings,
	// curl errors) to our stderr unless --quiet is set.
	var stream io.Writer = env.Stderr
	if f.common.quiet {
		stream = nil
	}
	conv, err := env.NewConverter(cfg, creds, logger, stream)
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	in := trello2pdf.Input{
		TextPath:     f.txt,
		OutputPath:   cfg.Output,
		Workdir:      cfg.Workdir,
		Font:         cfg.Font,
		KeepMarkdown: cfg.KeepMarkdown,
		HTMLPreview:  cfg.HTMLPreview,
	}

	if f.watch {
		return watchAndConvert(ctx, conv, in, env, logger)
	}
	_, err = convertOnce(ctx, conv, in, env, logger)
	return err
}

// convertOnce runs a single conversion and reports the produced files.
func convertOnce(ctx context.Context, conv cardConverter, in trello2pdf.Input, env *Environment, logger *slog.Logger) (*trello2pdf.Result, error) {
	start := env.Now()

	result, err := conv.Convert(ctx, in)
	if err != nil {
		return nil, err
	}

	logger.Info("conversion finished",
		"duration", env.Now().Sub(start).Round(time.Millisecond),
		"assets", len(result.Assets))

	if result.HTMLPath != "" {
		fmt.Fprintf(env.Stdout, "HTML created: %s\n", result.HTMLPath)
	}
	fmt.Fprintf(env.Stdout, "PDF created: %s\n", result.OutputPath)
	return result, nil
}

// resolveConfig loads the config named by the flag, else by
// TRELLO2PDF_CONFIG, else returns defaults.
func resolveConfig(flagName string, env *envConfig) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(config.Dir()))
		}
		return nil, err
	}
	return cfg, nil
}

// mergeFlags applies explicitly set CLI flags over cfg.
func mergeFlags(f *convertFlags, cfg *config.Config) {
	if f.out.output != "" {
		cfg.Output = f.out.output
	}
	if f.out.workdir != "" {
		cfg.Workdir = f.out.workdir
	}
	if f.out.keepMD {
		cfg.KeepMarkdown = true
	}
	if f.out.html {
		cfg.HTMLPreview = true
	}
	if f.render.engine != "" {
		cfg.Engine = f.render.engine
	}
	if f.render.font != "" {
		cfg.Font = f.render.font
	}
}

// logLevel maps the output flags to a logger level. Quiet wins.
func logLevel(f commonFlags) string {
	switch {
	case f.quiet:
		return log.LevelQuiet
	case f.verbose:
		return log.LevelVerbose
	default:
		return log.LevelNormal
	}
}

// buildConverter wires the configured fetcher and renderer into a
// trello2pdf.Converter.
func buildConverter(cfg *config.Config, creds trello2pdf.Credentials, logger *slog.Logger, stream io.Writer) (cardConverter, error) {
	runner := &trello2pdf.ExecRunner{Stdout: stream, Stderr: stream}

	fetcher := &trello2pdf.CurlFetcher{
		Runner:      runner,
		Binary:      cfg.Fetch.Binary,
		Credentials: creds,
		Logger:      logger,
	}

	renderer, err := buildRenderer(cfg, runner, logger)
	if err != nil {
		return nil, err
	}

	return trello2pdf.NewConverter(
		trello2pdf.WithRunner(runner),
		trello2pdf.WithCredentials(creds),
		trello2pdf.WithLogger(logger),
		trello2pdf.WithFetcher(fetcher),
		trello2pdf.WithRenderer(renderer),
	), nil
}

// buildRenderer returns the renderer selected by cfg.Engine.
func buildRenderer(cfg *config.Config, runner trello2pdf.CommandRunner, logger *slog.Logger) (trello2pdf.Renderer, error) {
	switch strings.ToLower(cfg.Engine) {
	case config.EngineChrome:
		timeout, err := cfg.PageTimeout()
		if err != nil {
			return nil, err
		}
		return trello2pdf.NewChromeRenderer(
			trello2pdf.WithBrowserBinary(cfg.Chrome.Binary),
			trello2pdf.WithPageTimeout(timeout),
			trello2pdf.WithHighlightStyle(cfg.Pandoc.HighlightStyle),
			trello2pdf.WithChromeLogger(logger),
		), nil
	case config.EnginePandoc:
		return &trello2pdf.PandocRenderer{
			Runner:         runner,
			Binary:         cfg.Pandoc.Binary,
			From:           cfg.Pandoc.From,
			PDFEngine:      cfg.Pandoc.PDFEngine,
			Margin:         cfg.Pandoc.Margin,
			HighlightStyle: cfg.Pandoc.HighlightStyle,
			Logger:         logger,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrInvalidEngine, cfg.Engine)
}
