package trello2pdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/alnah/go-trello2pdf/internal/hints"
	"github.com/alnah/go-trello2pdf/internal/log"
)

// Pandoc defaults.
const (
	DefaultPandocBinary   = "pandoc"
	DefaultFromFormat     = "gfm+attributes+pipe_tables+strikeout+task_lists+raw_html+hard_line_breaks"
	DefaultPDFEngine      = "xelatex"
	DefaultMargin         = "2cm"
	DefaultHighlightStyle = "tango"
)

// RenderRequest describes one staged card to render.
type RenderRequest struct {
	MarkdownPath string
	OutputPath   string // absolute
	Workdir      string // resource root for images
	HeaderPath   string // optional LaTeX header
	Font         string // optional main font
}

// Renderer turns a staged card into a PDF at req.OutputPath.
type Renderer interface {
	Render(ctx context.Context, req RenderRequest) error
}

// Compile-time interface check.
var _ Renderer = (*PandocRenderer)(nil)

// PandocRenderer renders by invoking the pandoc CLI in the workdir.
type PandocRenderer struct {
	Runner         CommandRunner
	Binary         string
	From           string
	PDFEngine      string
	Margin         string
	HighlightStyle string
	Logger         *slog.Logger
}

// NewPandocRenderer creates a PandocRenderer with a real command runner and
// default settings.
func NewPandocRenderer() *PandocRenderer {
	return &PandocRenderer{
		Runner:         &ExecRunner{},
		Binary:         DefaultPandocBinary,
		From:           DefaultFromFormat,
		PDFEngine:      DefaultPDFEngine,
		Margin:         DefaultMargin,
		HighlightStyle: DefaultHighlightStyle,
	}
}

// Args builds the pandoc argument vector for req. Empty settings fall back
// to the defaults.
func (p *PandocRenderer) Args(req RenderRequest) []string {
	args := []string{
		req.MarkdownPath,
		"--from", orDefault(p.From, DefaultFromFormat),
		"--pdf-engine", orDefault(p.PDFEngine, DefaultPDFEngine),
	}
	if req.HeaderPath != "" {
		args = append(args, "--include-in-header", req.HeaderPath)
	}
	args = append(args,
		"--variable", "geometry:margin="+orDefault(p.Margin, DefaultMargin),
		"--resource-path", ".",
		"--resource-path", AssetsDirName,
		"--syntax-highlighting="+orDefault(p.HighlightStyle, DefaultHighlightStyle),
		"-o", req.OutputPath,
	)
	if req.Font != "" {
		args = append(args, "--variable", "mainfont="+req.Font)
	}
	return args
}

// Render runs pandoc with the workdir as its working directory.
func (p *PandocRenderer) Render(ctx context.Context, req RenderRequest) error {
	binary := orDefault(p.Binary, DefaultPandocBinary)
	args := p.Args(req)
	p.logger().Debug("rendering with pandoc", "cmd", binary, "args", args, "dir", req.Workdir)

	_, stderr, err := p.Runner.Run(ctx, Command{Name: binary, Args: args, Dir: req.Workdir})
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %s: %v%s", ErrRender, binary, err, hints.ForMissingTool(DefaultPandocBinary))
	}
	return fmt.Errorf("%w: %s: %v%s%s", ErrRender, binary, err, stderrDetail(stderr), hints.ForRender(stderr, req.Font))
}

func (p *PandocRenderer) logger() *slog.Logger {
	if p.Logger == nil {
		return log.Discard()
	}
	return p.Logger
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
