package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/alnah/go-trello2pdf/internal/assets"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// DefaultHighlightStyle matches pandoc's default in the pandoc engine.
const DefaultHighlightStyle = "tango"

// htmlTemplate wraps goldmark's fragment output in a complete HTML5 document.
// Arguments: title, stylesheet, font override rule, body.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
%s
%s
</style>
</head>
<body>
%s
</body>
</html>`

// imageAttributes matches pandoc attribute blocks trailing an image,
// e.g. "![a](b){ width=100% }". Goldmark would print them as text.
var imageAttributes = regexp.MustCompile(`(!\[[^\]]*\]\([^)]*\))\{[^}]*\}`)

// HTMLOptions customizes one HTML rendering.
type HTMLOptions struct {
	Title string
	Font  string // CSS font-family override; empty keeps the stylesheet default
}

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string, opts HTMLOptions) (string, error)
}

// GoldmarkConverter converts staged card Markdown to a standalone HTML page.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions and
// chroma highlighting. Unknown style names fall back to DefaultHighlightStyle.
func NewGoldmarkConverter(highlightStyle string) *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(ResolveHighlightStyle(highlightStyle)),
				highlighting.WithFormatOptions(
					chromahtml.TabWidth(4),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(), // pandoc side uses hard_line_breaks too
			gmhtml.WithXHTML(),
			// No WithUnsafe: raw HTML in a card is dropped rather than executed
			// by the headless browser.
		),
	)
	return &GoldmarkConverter{md: md}
}

// ResolveHighlightStyle returns name if chroma knows it, else the default.
func ResolveHighlightStyle(name string) string {
	if name == "" || styles.Get(name) == styles.Fallback {
		return DefaultHighlightStyle
	}
	return name
}

// StripImageAttributes removes pandoc-style attribute blocks after images.
func StripImageAttributes(content string) string {
	return imageAttributes.ReplaceAllString(content, "$1")
}

// ToHTML converts Markdown content to a standalone HTML5 document.
// Goldmark has no context support, so conversion runs in a goroutine and
// the caller stops waiting on cancellation.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string, opts HTMLOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(StripImageAttributes(content)), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: fmt.Sprintf(htmlTemplate,
			html.EscapeString(titleOrDefault(opts.Title)),
			assets.Stylesheet(),
			fontRule(opts.Font),
			buf.String(),
		)}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

func titleOrDefault(title string) string {
	if title == "" {
		return "Card"
	}
	return title
}

// cssUnsafe strips characters that could close the declaration or the
// surrounding <style> element.
var cssUnsafe = strings.NewReplacer("<", "", ">", "", "{", "", "}", "", ";", "", `"`, "", `\`, "")

// fontRule sets the stylesheet's --card-font variable.
func fontRule(font string) string {
	font = strings.TrimSpace(cssUnsafe.Replace(font))
	if font == "" {
		return ""
	}
	return fmt.Sprintf(":root { --card-font: \"%s\"; }", font)
}
