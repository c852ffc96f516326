package trello2pdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/alnah/go-trello2pdf/internal/hints"
	"github.com/alnah/go-trello2pdf/internal/log"
)

// DefaultCurlBinary is the download command looked up on PATH.
const DefaultCurlBinary = "curl"

// FetchRequest asks for URL to be saved as Dir/Filename.
type FetchRequest struct {
	URL      string
	Dir      string
	Filename string
}

// Fetcher downloads one asset.
type Fetcher interface {
	Fetch(ctx context.Context, req FetchRequest) error
}

// Compile-time interface check.
var _ Fetcher = (*CurlFetcher)(nil)

// CurlFetcher downloads assets by running curl in the assets directory.
type CurlFetcher struct {
	Runner      CommandRunner
	Binary      string // defaults to DefaultCurlBinary
	Credentials Credentials
	Logger      *slog.Logger
}

// NewCurlFetcher creates a CurlFetcher with a real command runner.
func NewCurlFetcher(creds Credentials) *CurlFetcher {
	return &CurlFetcher{
		Runner:      &ExecRunner{},
		Binary:      DefaultCurlBinary,
		Credentials: creds,
	}
}

// CurlArgs builds the curl argument vector for req. The output name is
// relative: curl runs with req.Dir as its working directory.
func (f *CurlFetcher) CurlArgs(req FetchRequest) []string {
	args := []string{"-L", "--fail-with-body", "-sS", "-o", req.Filename}
	if header, ok := f.Credentials.Header(); ok {
		args = append(args, "-H", "Authorization: "+header)
	}
	return append(args, req.URL)
}

// Fetch runs curl and waits for it. A non-zero exit is an error carrying
// curl's stderr and, when recognizable, a hint.
func (f *CurlFetcher) Fetch(ctx context.Context, req FetchRequest) error {
	if strings.TrimSpace(req.URL) == "" {
		return ErrEmptyURL
	}

	binary := f.Binary
	if binary == "" {
		binary = DefaultCurlBinary
	}
	args := f.CurlArgs(req)
	f.logger().Debug("downloading asset", "url", req.URL, "file", req.Filename, "cmd", binary, "args", args)

	_, stderr, err := f.Runner.Run(ctx, Command{Name: binary, Args: args, Dir: req.Dir})
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%s: %w%s", binary, err, hints.ForMissingTool(DefaultCurlBinary))
	}

	_, authenticated := f.Credentials.Header()
	return fmt.Errorf("%s: %w%s%s", binary, err, stderrDetail(stderr), hints.ForDownload(stderr, authenticated))
}

func (f *CurlFetcher) logger() *slog.Logger {
	if f.Logger == nil {
		return log.Discard()
	}
	return f.Logger
}

// stderrDetail formats the tail of a child's stderr for an error message.
func stderrDetail(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return ""
	}
	const maxLines = 5
	lines := strings.Split(stderr, "\n")
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return ": " + strings.Join(lines, "\n")
}
