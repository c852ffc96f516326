package trello2pdf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-trello2pdf/internal/assets"
	"github.com/alnah/go-trello2pdf/internal/fileutil"
)

// Staged file names inside the workdir.
const (
	MarkdownName = "card.md"
	HeaderName   = assets.HeaderTeXName
	HTMLName     = "card.html"
)

// EmptyPlaceholder is the body staged for a card with no content, so the
// renderer still produces a one-page PDF.
const EmptyPlaceholder = "*Empty document*"

// StagedDocument holds the paths written by Stage.
type StagedDocument struct {
	Dir          string
	MarkdownPath string
	HeaderPath   string
}

// Stage writes card.md and header.tex into workdir, creating it if needed.
// A body that is empty after trimming is replaced by EmptyPlaceholder;
// otherwise markdown is written unchanged.
func Stage(workdir, markdown string) (*StagedDocument, error) {
	if err := fileutil.EnsureDir(workdir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStage, err)
	}

	if strings.TrimSpace(markdown) == "" {
		markdown = EmptyPlaceholder
	}

	doc := &StagedDocument{
		Dir:          workdir,
		MarkdownPath: filepath.Join(workdir, MarkdownName),
		HeaderPath:   filepath.Join(workdir, HeaderName),
	}

	if err := os.WriteFile(doc.MarkdownPath, []byte(markdown), fileutil.FilePerm); err != nil { // #nosec G306 -- staged document is meant to be readable
		return nil, fmt.Errorf("%w: writing %s: %v", ErrStage, MarkdownName, err)
	}
	if err := os.WriteFile(doc.HeaderPath, []byte(assets.HeaderTeX()), fileutil.FilePerm); err != nil { // #nosec G306
		return nil, fmt.Errorf("%w: writing %s: %v", ErrStage, HeaderName, err)
	}

	return doc, nil
}

// Markdown reads back the staged card body.
func (d *StagedDocument) Markdown() (string, error) {
	data, err := os.ReadFile(d.MarkdownPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStage, err)
	}
	return string(data), nil
}

// RemoveMarkdown deletes card.md. A file that is already gone is not an error.
func (d *StagedDocument) RemoveMarkdown() error {
	if err := os.Remove(d.MarkdownPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
