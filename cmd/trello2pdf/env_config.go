package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alnah/go-trello2pdf/internal/config"
)

// envPrefix marks variables owned by this tool.
const envPrefix = "TRELLO2PDF_"

// envConfig holds configuration from environment variables.
type envConfig struct {
	// Trello credentials, attached to downloads only when both are set.
	TrelloKey   string // TRELLO_KEY
	TrelloToken string // TRELLO_TOKEN

	ConfigPath string // TRELLO2PDF_CONFIG: config file name or path
	Font       string // TRELLO2PDF_FONT: main font
	Engine     string // TRELLO2PDF_ENGINE: pandoc or chrome
	Workdir    string // TRELLO2PDF_WORKDIR: staging directory
}

// knownEnvVars lists valid TRELLO2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"TRELLO2PDF_CONFIG":  true,
	"TRELLO2PDF_FONT":    true,
	"TRELLO2PDF_ENGINE":  true,
	"TRELLO2PDF_WORKDIR": true,
	// Read by doctor's container detection.
	"TRELLO2PDF_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	return &envConfig{
		TrelloKey:   os.Getenv("TRELLO_KEY"),
		TrelloToken: os.Getenv("TRELLO_TOKEN"),
		ConfigPath:  os.Getenv("TRELLO2PDF_CONFIG"),
		Font:        os.Getenv("TRELLO2PDF_FONT"),
		Engine:      os.Getenv("TRELLO2PDF_ENGINE"),
		Workdir:     os.Getenv("TRELLO2PDF_WORKDIR"),
	}
}

// warnUnknownEnvVars prints warnings for unrecognized TRELLO2PDF_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment values over the loaded config.
// Environment beats the config file; flags are applied afterwards by
// mergeFlags, giving: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Font != "" {
		cfg.Font = env.Font
	}
	if env.Engine != "" {
		cfg.Engine = env.Engine
	}
	if env.Workdir != "" {
		cfg.Workdir = env.Workdir
	}
}
