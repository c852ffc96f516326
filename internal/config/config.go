package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/alnah/go-trello2pdf/internal/fileutil"
	"github.com/alnah/go-trello2pdf/internal/yamlutil"
)

// AppName names the per-user config directory.
const AppName = "trello2pdf"

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidEngine   = errors.New("invalid render engine")
	ErrInvalidTimeout  = errors.New("invalid timeout")
)

// Render engines.
const (
	EnginePandoc = "pandoc"
	EngineChrome = "chrome"
)

// Field length limits.
const (
	MaxPathLength      = 4096
	MaxFontLength      = 100 // "TeX Gyre Termes", "DejaVu Sans Mono"
	MaxFormatLength    = 200 // pandoc --from extension chain
	MaxMarginLength    = 20  // "2cm", "0.75in"
	MaxHighlightLength = 30  // "tango", "breezedark"
)

// Config holds everything a run needs besides the input path.
type Config struct {
	Output       string       `yaml:"output"`
	Workdir      string       `yaml:"workdir"`
	Font         string       `yaml:"font"`
	KeepMarkdown bool         `yaml:"keepMarkdown"`
	HTMLPreview  bool         `yaml:"html"`
	Engine       string       `yaml:"engine"` // "pandoc" (default) or "chrome"
	Pandoc       PandocConfig `yaml:"pandoc"`
	Fetch        FetchConfig  `yaml:"fetch"`
	Chrome       ChromeConfig `yaml:"chrome"`
}

// PandocConfig tunes the pandoc invocation.
type PandocConfig struct {
	Binary         string `yaml:"binary"`
	From           string `yaml:"from"`
	PDFEngine      string `yaml:"pdfEngine"`
	Margin         string `yaml:"margin"`
	HighlightStyle string `yaml:"highlightStyle"`
}

// FetchConfig tunes the asset download command.
type FetchConfig struct {
	Binary string `yaml:"binary"`
}

// ChromeConfig tunes the headless Chrome engine.
type ChromeConfig struct {
	Binary  string `yaml:"binary"`  // empty = ROD_BROWSER_BIN or rod-managed Chromium
	Timeout string `yaml:"timeout"` // page load timeout, e.g. "30s"
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() *Config {
	return &Config{
		Output: "output.pdf",
		Engine: EnginePandoc,
		Pandoc: PandocConfig{
			Binary:         "pandoc",
			From:           "gfm+attributes+pipe_tables+strikeout+task_lists+raw_html+hard_line_breaks",
			PDFEngine:      "xelatex",
			Margin:         "2cm",
			HighlightStyle: "tango",
		},
		Fetch:  FetchConfig{Binary: "curl"},
		Chrome: ChromeConfig{Timeout: "30s"},
	}
}

// Validate checks engine names, durations and field lengths.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Engine) {
	case EnginePandoc, EngineChrome:
	default:
		return fmt.Errorf("%w: %q (must be pandoc or chrome)", ErrInvalidEngine, c.Engine)
	}

	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"output", c.Output, MaxPathLength},
		{"workdir", c.Workdir, MaxPathLength},
		{"font", c.Font, MaxFontLength},
		{"pandoc.binary", c.Pandoc.Binary, MaxPathLength},
		{"pandoc.from", c.Pandoc.From, MaxFormatLength},
		{"pandoc.pdfEngine", c.Pandoc.PDFEngine, MaxPathLength},
		{"pandoc.margin", c.Pandoc.Margin, MaxMarginLength},
		{"pandoc.highlightStyle", c.Pandoc.HighlightStyle, MaxHighlightLength},
		{"fetch.binary", c.Fetch.Binary, MaxPathLength},
		{"chrome.binary", c.Chrome.Binary, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if _, err := c.PageTimeout(); err != nil {
		return err
	}
	return nil
}

// PageTimeout parses Chrome.Timeout. Empty means no limit.
func (c *Config) PageTimeout() (time.Duration, error) {
	if c.Chrome.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Chrome.Timeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: chrome.timeout %q", ErrInvalidTimeout, c.Chrome.Timeout)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise it is searched in the current directory, then in the user's
// XDG config directory. Keys missing from the file keep their defaults.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Dir returns the per-user config directory, e.g. ~/.config/trello2pdf.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// resolveConfigPath searches for a config file by name.
// Tries extensions .yaml then .yml, in the current directory first.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	dirs := []string{"", Dir()}
	tried := make([]string, 0, len(extensions)*len(dirs))

	for _, dir := range dirs {
		for _, ext := range extensions {
			candidate := filepath.Join(dir, name+ext)
			if fileutil.FileExists(candidate) {
				return candidate, nil
			}
			tried = append(tried, candidate)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
