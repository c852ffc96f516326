package main

// Notes:
// - Test infrastructure shared by the command tests: a fake converter that
//   records every Input and an Environment wired to buffers.

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	trello2pdf "github.com/alnah/go-trello2pdf"
	"github.com/alnah/go-trello2pdf/internal/config"
)

// fakeConverter records conversions instead of running them.
type fakeConverter struct {
	mu     sync.Mutex
	inputs []trello2pdf.Input
	err    error
	closed bool
	calls  chan struct{} // optional; receives one value per Convert
}

func (f *fakeConverter) Convert(_ context.Context, in trello2pdf.Input) (*trello2pdf.Result, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, in)
	f.mu.Unlock()

	if f.calls != nil {
		f.calls <- struct{}{}
	}
	if f.err != nil {
		return nil, f.err
	}

	out := in.OutputPath
	if out == "" {
		out = trello2pdf.DefaultOutput
	}
	abs, _ := filepath.Abs(out)
	res := &trello2pdf.Result{OutputPath: abs}
	if in.HTMLPreview {
		res.HTMLPath = filepath.Join(filepath.Dir(abs), trello2pdf.HTMLName)
	}
	return res, nil
}

func (f *fakeConverter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConverter) lastInput(t *testing.T) trello2pdf.Input {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.inputs) == 0 {
		t.Fatal("Convert was not called")
	}
	return f.inputs[len(f.inputs)-1]
}

// builtWith captures the arguments NewConverter received.
type builtWith struct {
	cfg    *config.Config
	creds  trello2pdf.Credentials
	stream io.Writer
}

type testEnv struct {
	env    *Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	conv   *fakeConverter
	built  *builtWith
}

func newTestEnv(conv *fakeConverter) *testEnv {
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		conv:   conv,
		built:  &builtWith{},
	}
	te.env = &Environment{
		Now:    func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) },
		Stdout: te.stdout,
		Stderr: te.stderr,
		NewConverter: func(cfg *config.Config, creds trello2pdf.Credentials, _ *slog.Logger, stream io.Writer) (cardConverter, error) {
			te.built.cfg = cfg
			te.built.creds = creds
			te.built.stream = stream
			return conv, nil
		},
	}
	return te
}
