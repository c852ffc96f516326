// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-trello2pdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// toolSettings maps external tools to the config key that overrides them.
var toolSettings = map[string]string{
	"curl":    "fetch.binary",
	"pandoc":  "pandoc.binary",
	"xelatex": "pandoc.pdfEngine",
}

// ForMissingTool returns a hint for an external tool that is not on PATH.
func ForMissingTool(name string) string {
	hint := "install " + name + " or add it to PATH"
	if key, ok := toolSettings[name]; ok {
		hint += " (or set " + key + " in the config file)"
	}
	return format(hint)
}

// ForDownload inspects curl's stderr and suggests a fix.
// authenticated reports whether Trello credentials were attached.
func ForDownload(stderr string, authenticated bool) string {
	switch {
	case containsStatus(stderr, 401), containsStatus(stderr, 403):
		if authenticated {
			return format("TRELLO_KEY/TRELLO_TOKEN were sent but rejected; check they grant access to this board")
		}
		return format("Trello attachments need auth: set both TRELLO_KEY and TRELLO_TOKEN")
	case containsStatus(stderr, 404):
		return format("the attachment may have been deleted from the card")
	case strings.Contains(stderr, "Could not resolve host"):
		return format("check network connectivity and the attachment URL")
	}
	return ""
}

// ForRender inspects the renderer's stderr and suggests a fix.
func ForRender(stderr, font string) string {
	lower := strings.ToLower(stderr)
	switch {
	case font != "" && strings.Contains(lower, "fontspec"):
		return format(fmt.Sprintf("font %q is not installed; list fonts with fc-list", font))
	case strings.Contains(lower, "xelatex not found"), strings.Contains(lower, "pdf-engine"):
		return format("install a TeX distribution providing xelatex, or use --engine chrome")
	case strings.Contains(lower, "unknown option") && strings.Contains(lower, "syntax-highlighting"):
		return format("pandoc is older than 3.8; upgrade or use --engine chrome")
	}
	return ""
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForConfigNotFound returns hints for config file not found errors.
func ForConfigNotFound(configDir string) string {
	return format("use --config /path/to/file.yaml or create one in " + configDir)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// containsStatus matches curl's "returned error: 401" style messages.
func containsStatus(stderr string, code int) bool {
	return strings.Contains(stderr, fmt.Sprintf("error: %d", code))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
