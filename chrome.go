package trello2pdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-trello2pdf/internal/fileutil"
	"github.com/alnah/go-trello2pdf/internal/hints"
	"github.com/alnah/go-trello2pdf/internal/log"
	"github.com/alnah/go-trello2pdf/internal/pipeline"
)

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string) ([]byte, error)
	Close() error
}

// Compile-time interface checks.
var (
	_ Renderer    = (*ChromeRenderer)(nil)
	_ pdfRenderer = (*rodRenderer)(nil)
)

// A4 page with the same 2cm margins the pandoc engine uses, in inches.
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	marginInches      = 2 / 2.54
)

// DefaultPageTimeout bounds the page load when the context has no deadline.
const DefaultPageTimeout = 30 * time.Second

// rodRenderer implements pdfRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	binary   string
	timeout  time.Duration
}

// ensureBrowser lazily connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Explicit binary wins over ROD_BROWSER_BIN (Docker/containerized environments)
	bin := r.binary
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || bin != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v%s", ErrBrowser, err, hints.ForBrowserConnect())
	}

	r.launcher = l
	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		l.Kill()
		r.launcher = nil
		return fmt.Errorf("%w: %v%s", ErrBrowser, err, hints.ForBrowserConnect())
	}
	return nil
}

// Close releases browser resources.
func (r *rodRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// RenderFromFile opens a local HTML file in headless Chrome and renders it to PDF.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: pathToFileURL(filePath)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if timeout <= 0 {
		timeout = DefaultPageTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Context(ctx).Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(buildPDFOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGenerate, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGenerate, err)
	}

	return pdfBuf, nil
}

// buildPDFOptions constructs proto.PagePrintToPDF for an A4 page.
func buildPDFOptions() *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(p string) string {
	p = filepath.ToSlash(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + p
}

// ChromeOption configures a ChromeRenderer.
type ChromeOption func(*ChromeRenderer)

// WithBrowserBinary sets the Chrome executable. Empty keeps ROD_BROWSER_BIN
// or the rod-managed Chromium.
func WithBrowserBinary(path string) ChromeOption {
	return func(c *ChromeRenderer) {
		if r, ok := c.pdf.(*rodRenderer); ok {
			r.binary = path
		}
	}
}

// WithPageTimeout sets the page load timeout.
func WithPageTimeout(d time.Duration) ChromeOption {
	return func(c *ChromeRenderer) {
		if r, ok := c.pdf.(*rodRenderer); ok {
			r.timeout = d
		}
	}
}

// WithHighlightStyle sets the chroma style for code blocks.
func WithHighlightStyle(style string) ChromeOption {
	return func(c *ChromeRenderer) {
		c.html = pipeline.NewGoldmarkConverter(style)
	}
}

// WithChromeLogger sets the logger.
func WithChromeLogger(logger *slog.Logger) ChromeOption {
	return func(c *ChromeRenderer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// ChromeRenderer renders the staged Markdown through Goldmark and headless
// Chrome instead of pandoc and LaTeX. Close it to stop the browser.
type ChromeRenderer struct {
	html   pipeline.HTMLConverter
	pdf    pdfRenderer
	logger *slog.Logger
}

// NewChromeRenderer creates a ChromeRenderer. The browser starts on the
// first Render call.
func NewChromeRenderer(opts ...ChromeOption) *ChromeRenderer {
	c := &ChromeRenderer{
		html:   pipeline.NewGoldmarkConverter(DefaultHighlightStyle),
		pdf:    &rodRenderer{timeout: DefaultPageTimeout},
		logger: log.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render converts req.MarkdownPath to HTML, resolves image paths against
// req.Workdir and prints the page to req.OutputPath.
func (c *ChromeRenderer) Render(ctx context.Context, req RenderRequest) error {
	md, err := os.ReadFile(req.MarkdownPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}

	page, err := c.html.ToHTML(ctx, string(md), pipeline.HTMLOptions{
		Title: titleFor(req.OutputPath),
		Font:  req.Font,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}

	page, err = pipeline.RewriteImageSources(page, req.Workdir)
	if err != nil {
		return fmt.Errorf("%w: rewriting image paths: %v", ErrRender, err)
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(page, "html")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	defer cleanup()

	c.logger.Debug("rendering with chrome", "html", tmpPath, "out", req.OutputPath)

	pdf, err := c.pdf.RenderFromFile(ctx, tmpPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}

	if err := os.WriteFile(req.OutputPath, pdf, fileutil.FilePerm); err != nil { // #nosec G306 -- output PDF is meant to be readable
		return fmt.Errorf("%w: writing %s: %v%s", ErrRender, req.OutputPath, err, hints.ForOutputDirectory())
	}
	return nil
}

// Close stops the browser if it was started.
func (c *ChromeRenderer) Close() error {
	if c.pdf != nil {
		return c.pdf.Close()
	}
	return nil
}

// titleFor derives a document title from the output file name.
func titleFor(outputPath string) string {
	return strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))
}
