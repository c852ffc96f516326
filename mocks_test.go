package trello2pdf

// Notes:
// - Hand-written mocks shared by the package tests. Each records its calls
//   so tests can assert on what the pipeline asked for.

import (
	"context"
	"os"
	"path/filepath"
)

// mockRunner implements CommandRunner.
type mockRunner struct {
	Stdout string
	Stderr string
	Err    error
	Calls  []Command
}

func (m *mockRunner) Run(ctx context.Context, cmd Command) (string, string, error) {
	m.Calls = append(m.Calls, cmd)
	return m.Stdout, m.Stderr, m.Err
}

// CalledWith returns the last command as name followed by args.
func (m *mockRunner) CalledWith() []string {
	if len(m.Calls) == 0 {
		return nil
	}
	last := m.Calls[len(m.Calls)-1]
	return append([]string{last.Name}, last.Args...)
}

// mockFetcher implements Fetcher. Unless skipWrite is set it creates the
// requested file, like a successful download would.
type mockFetcher struct {
	requests  []FetchRequest
	failOn    map[string]error // URL -> error
	skipWrite bool
}

func (m *mockFetcher) Fetch(ctx context.Context, req FetchRequest) error {
	m.requests = append(m.requests, req)
	if err, ok := m.failOn[req.URL]; ok {
		return err
	}
	if m.skipWrite {
		return nil
	}
	return os.WriteFile(filepath.Join(req.Dir, req.Filename), []byte("img:"+req.URL), 0o644)
}

// mockRenderer implements Renderer and io.Closer.
type mockRenderer struct {
	requests []RenderRequest
	err      error
	closed   bool
	// seenMarkdown holds card.md content at render time.
	seenMarkdown string
}

func (m *mockRenderer) Render(ctx context.Context, req RenderRequest) error {
	m.requests = append(m.requests, req)
	if data, err := os.ReadFile(req.MarkdownPath); err == nil {
		m.seenMarkdown = string(data)
	}
	if m.err != nil {
		return m.err
	}
	return os.WriteFile(req.OutputPath, []byte("%PDF-1.7"), 0o644)
}

func (m *mockRenderer) Close() error {
	m.closed = true
	return nil
}
