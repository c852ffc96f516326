package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	trello2pdf "github.com/alnah/go-trello2pdf"
	"github.com/alnah/go-trello2pdf/internal/config"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	// NewConverter builds the converter for one invocation. stream receives
	// child process output and is nil when --quiet is set.
	NewConverter func(cfg *config.Config, creds trello2pdf.Credentials, logger *slog.Logger, stream io.Writer) (cardConverter, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:          time.Now,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		NewConverter: buildConverter,
	}
}
