package pipeline

import (
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// imageParser only builds ASTs; it never renders.
var imageParser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

// LocalImages returns the distinct local image destinations referenced by
// markdown, in document order. Remote URLs, protocol-relative URLs and data
// URIs are skipped.
func LocalImages(markdown string) []string {
	src := []byte(markdown)
	doc := imageParser.Parse(text.NewReader(src))

	var found []string
	seen := make(map[string]bool)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}
		dest := string(img.Destination)
		if isLocalDestination(dest) && !seen[dest] {
			seen[dest] = true
			found = append(found, dest)
		}
		return ast.WalkContinue, nil
	})

	return found
}

// isLocalDestination reports whether dest names a file rather than a URL.
func isLocalDestination(dest string) bool {
	if dest == "" || strings.HasPrefix(dest, "//") || strings.HasPrefix(dest, "#") {
		return false
	}
	u, err := url.Parse(dest)
	if err != nil {
		return true
	}
	// A single-letter scheme is a Windows drive letter.
	return len(u.Scheme) <= 1
}
