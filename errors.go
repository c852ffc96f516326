package trello2pdf

import "errors"

// Sentinel errors for library operations.
var (
	ErrReadInput         = errors.New("reading input failed")
	ErrDownload          = errors.New("asset download failed")
	ErrEmptyURL          = errors.New("image URL is empty")
	ErrTooManyCollisions = errors.New("too many filename collisions")
	ErrStage             = errors.New("staging failed")
	ErrRender            = errors.New("PDF rendering failed")
	ErrHTMLPreview       = errors.New("HTML preview failed")

	// Chrome engine errors.
	ErrBrowser     = errors.New("failed to connect to browser")
	ErrPageCreate  = errors.New("failed to create browser page")
	ErrPageLoad    = errors.New("failed to load page")
	ErrPDFGenerate = errors.New("PDF generation failed")
)
