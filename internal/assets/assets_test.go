package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestHeaderTeX(t *testing.T) {
	t.Parallel()

	header := HeaderTeX()
	for _, want := range []string{
		`\usepackage{graphicx}`,
		`\usepackage{xcolor}`,
		`\definecolor{shadecolor}{RGB}{235,235,235}`,
		`\setkeys{Gin}{width=\linewidth,keepaspectratio}`,
		`\usepackage{fvextra}`,
		`\DefineVerbatimEnvironment{Highlighting}{Verbatim}{%`,
		`breaklines,breakanywhere,`,
		`commandchars=\\\{\},`,
		`breaksymbol={},`,
		`breaksymbolleft={},`,
	} {
		if !strings.Contains(header, want) {
			t.Errorf("header.tex missing %q", want)
		}
	}
}

func TestStylesheet(t *testing.T) {
	t.Parallel()

	css := Stylesheet()
	if !strings.Contains(css, "--card-font") {
		t.Error("stylesheet should expose the --card-font variable")
	}
	if !strings.Contains(css, "max-width: 100%") {
		t.Error("stylesheet should keep images within the page width")
	}
}

func TestRead(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		asset   string
		wantErr error
	}{
		{"header", HeaderTeXName, nil},
		{"stylesheet", StylesheetName, nil},
		{"missing", "nope.css", ErrAssetNotFound},
		{"empty", "", ErrInvalidAssetName},
		{"traversal", "../go.mod", ErrInvalidAssetName},
		{"hidden", ".env", ErrInvalidAssetName},
		{"backslash", `files\header.tex`, ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			content, err := Read(tt.asset)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Read(%q) error = %v, want %v", tt.asset, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if content == "" {
				t.Error("content should not be empty")
			}
		})
	}
}
