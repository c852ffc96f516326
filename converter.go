package trello2pdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alnah/go-trello2pdf/internal/fileutil"
	"github.com/alnah/go-trello2pdf/internal/hints"
	"github.com/alnah/go-trello2pdf/internal/log"
	"github.com/alnah/go-trello2pdf/internal/pipeline"
)

// DefaultOutput is the PDF path used when Input.OutputPath is empty.
const DefaultOutput = "output.pdf"

// Compile-time interface checks.
var (
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
	_ io.Closer              = (*ChromeRenderer)(nil)
)

// Input describes one card conversion.
type Input struct {
	TextPath     string // card export to read (required)
	OutputPath   string // PDF destination; defaults to DefaultOutput
	Workdir      string // staging directory; defaults to the directory of TextPath
	Font         string // main font for the renderer
	KeepMarkdown bool   // keep card.md after rendering
	HTMLPreview  bool   // also write card.html
}

// Result reports what a conversion produced. Paths are absolute.
type Result struct {
	OutputPath   string
	MarkdownPath string // empty unless Input.KeepMarkdown
	HeaderPath   string
	HTMLPath     string // empty unless Input.HTMLPreview
	Assets       []Asset
}

// Option configures a Converter.
type Option func(*Converter)

// WithFetcher replaces the curl fetcher.
func WithFetcher(f Fetcher) Option {
	return func(c *Converter) {
		c.fetcher = f
	}
}

// WithRenderer replaces the pandoc renderer.
func WithRenderer(r Renderer) Option {
	return func(c *Converter) {
		c.renderer = r
	}
}

// WithLogger sets the logger passed down to the default fetcher and renderer.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCredentials sets the Trello credentials used by the default fetcher.
func WithCredentials(creds Credentials) Option {
	return func(c *Converter) {
		c.creds = creds
	}
}

// WithRunner sets the command runner used by the default fetcher and renderer.
func WithRunner(r CommandRunner) Option {
	return func(c *Converter) {
		c.runner = r
	}
}

// Converter runs the card-to-PDF pipeline.
// Create with NewConverter, use Convert for each card, and Close when done.
type Converter struct {
	fetcher  Fetcher
	renderer Renderer
	runner   CommandRunner
	creds    Credentials
	logger   *slog.Logger
	preview  pipeline.HTMLConverter
}

// NewConverter creates a Converter. Without options it downloads with curl
// and renders with pandoc.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		runner:  &ExecRunner{},
		logger:  log.Discard(),
		preview: pipeline.NewGoldmarkConverter(DefaultHighlightStyle),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.fetcher == nil {
		c.fetcher = &CurlFetcher{
			Runner:      c.runner,
			Binary:      DefaultCurlBinary,
			Credentials: c.creds,
			Logger:      c.logger,
		}
	}
	if c.renderer == nil {
		p := NewPandocRenderer()
		p.Runner = c.runner
		p.Logger = c.logger
		c.renderer = p
	}

	return c
}

// Convert reads in.TextPath and writes the PDF. Stages run in order and the
// first failure stops the run. On a render failure card.md is left in place
// for inspection.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, in Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if in.TextPath == "" {
		return nil, fmt.Errorf("%w: no input path", ErrReadInput)
	}

	src, err := os.ReadFile(in.TextPath) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	workdir, outAbs, err := resolvePaths(in)
	if err != nil {
		return nil, err
	}
	if err := fileutil.EnsureDir(workdir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStage, err)
	}

	c.logger.Debug("converting card", "input", in.TextPath, "workdir", workdir, "output", outAbs)

	rewriter := NewAssetRewriter(filepath.Join(workdir, AssetsDirName), c.fetcher, WithRewriterLogger(c.logger))
	markdown, assets, err := rewriter.Rewrite(ctx, pipeline.NormalizeInput(string(src)))
	if err != nil {
		return nil, err
	}

	doc, err := Stage(workdir, markdown)
	if err != nil {
		return nil, err
	}
	c.warnMissingImages(doc)

	res := &Result{
		OutputPath: outAbs,
		HeaderPath: doc.HeaderPath,
		Assets:     assets,
	}

	if in.HTMLPreview {
		res.HTMLPath, err = c.writePreview(ctx, doc, in.Font, titleFor(outAbs))
		if err != nil {
			return nil, err
		}
	}

	if err := fileutil.EnsureDir(filepath.Dir(outAbs)); err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrStage, err, hints.ForOutputDirectory())
	}

	if err := c.renderer.Render(ctx, RenderRequest{
		MarkdownPath: doc.MarkdownPath,
		OutputPath:   outAbs,
		Workdir:      workdir,
		HeaderPath:   doc.HeaderPath,
		Font:         in.Font,
	}); err != nil {
		return nil, err
	}

	if in.KeepMarkdown {
		res.MarkdownPath = doc.MarkdownPath
	} else if err := doc.RemoveMarkdown(); err != nil {
		c.logger.Warn("could not remove staged markdown", "path", doc.MarkdownPath, "error", err)
	}

	return res, nil
}

// Close releases renderer resources (headless Chrome, if used).
func (c *Converter) Close() error {
	if closer, ok := c.renderer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// resolvePaths returns the absolute workdir and output path for in.
func resolvePaths(in Input) (workdir, output string, err error) {
	workdir = in.Workdir
	if workdir == "" {
		workdir = filepath.Dir(in.TextPath)
	}
	if workdir, err = filepath.Abs(workdir); err != nil {
		return "", "", fmt.Errorf("%w: resolving workdir: %v", ErrStage, err)
	}

	output = in.OutputPath
	if output == "" {
		output = DefaultOutput
	}
	if output, err = filepath.Abs(output); err != nil {
		return "", "", fmt.Errorf("%w: resolving output: %v", ErrStage, err)
	}
	return workdir, output, nil
}

// warnMissingImages logs local image references that do not resolve to a
// file under the workdir. pandoc would fail on them later with a less
// specific message.
func (c *Converter) warnMissingImages(doc *StagedDocument) {
	md, err := doc.Markdown()
	if err != nil {
		return
	}
	for _, dest := range pipeline.LocalImages(md) {
		p := filepath.FromSlash(dest)
		if !filepath.IsAbs(p) {
			p = filepath.Join(doc.Dir, p)
		}
		if !fileutil.FileExists(p) {
			c.logger.Warn("image not found", "path", dest)
		}
	}
}

// writePreview renders the staged Markdown to card.html next to card.md.
// Image paths stay relative, so the page works when opened from the workdir.
func (c *Converter) writePreview(ctx context.Context, doc *StagedDocument, font, title string) (string, error) {
	md, err := doc.Markdown()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLPreview, err)
	}

	page, err := c.preview.ToHTML(ctx, md, pipeline.HTMLOptions{Title: title, Font: font})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHTMLPreview, err)
	}

	path := filepath.Join(doc.Dir, HTMLName)
	if err := os.WriteFile(path, []byte(page), fileutil.FilePerm); err != nil { // #nosec G306 -- preview is meant to be readable
		return "", fmt.Errorf("%w: %v", ErrHTMLPreview, err)
	}
	c.logger.Info("wrote HTML preview", "path", path)
	return path, nil
}
