package main

// Notes:
// - exitCodeFor: every usage sentinel maps to 2, pipeline sentinels to 1,
//   and wrapping keeps the mapping.

import (
	"errors"
	"fmt"
	"testing"

	trello2pdf "github.com/alnah/go-trello2pdf"
	"github.com/alnah/go-trello2pdf/internal/config"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		// Usage errors (exit 2)
		{"no input", ErrNoInput, ExitUsage},
		{"invalid flags", ErrInvalidFlags, ExitUsage},
		{"unexpected args", ErrUnexpectedArgs, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"empty config name", config.ErrEmptyConfigName, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid engine", config.ErrInvalidEngine, ExitUsage},
		{"invalid timeout", config.ErrInvalidTimeout, ExitUsage},
		{"wrapped no input", fmt.Errorf("convert: %w", ErrNoInput), ExitUsage},

		// Runtime errors (exit 1)
		{"read input", trello2pdf.ErrReadInput, ExitGeneral},
		{"download", trello2pdf.ErrDownload, ExitGeneral},
		{"wrapped download", fmt.Errorf("%w: http://x: boom", trello2pdf.ErrDownload), ExitGeneral},
		{"render", trello2pdf.ErrRender, ExitGeneral},
		{"browser", trello2pdf.ErrBrowser, ExitGeneral},
		{"stage", trello2pdf.ErrStage, ExitGeneral},
		{"unknown", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
