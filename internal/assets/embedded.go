package assets

import (
	"embed"
	"fmt"
)

//go:embed files/*
var files embed.FS

// Embedded file names.
const (
	HeaderTeXName  = "header.tex"
	StylesheetName = "card.css"
)

// HeaderTeX returns the LaTeX header fragment passed to pandoc with
// --include-in-header. Its content is fixed and never derived from input.
func HeaderTeX() string {
	return mustRead(HeaderTeXName)
}

// Stylesheet returns the CSS used by the HTML preview and the chrome engine.
func Stylesheet() string {
	return mustRead(StylesheetName)
}

// Read returns an embedded file by name.
func Read(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := files.ReadFile("files/" + name)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrAssetNotFound, name)
	}
	return string(content), nil
}

// mustRead panics on a missing embedded file; that is a build defect.
func mustRead(name string) string {
	content, err := Read(name)
	if err != nil {
		panic(err)
	}
	return content
}
