package trello2pdf

// Notes:
// - Converter tests run the real rewriter, stager and HTML preview on a
//   temp workdir, with mockFetcher and mockRenderer standing in for curl
//   and pandoc.

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-trello2pdf/internal/log"
)

func writeCard(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "card.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txt := writeCard(t, dir, "# Bug\\nSee [shot 1.png](https://trello.com/a/shot.png)\r\n\\tdone")
	out := filepath.Join(dir, "out", "card.pdf")

	fetcher := &mockFetcher{}
	renderer := &mockRenderer{}
	conv := NewConverter(WithFetcher(fetcher), WithRenderer(renderer))

	res, err := conv.Convert(context.Background(), Input{TextPath: txt, OutputPath: out, Font: "Arial"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	wantMD := "# Bug\nSee ![shot_1.png](assets/shot_1.png){ width=100% }\n\tdone"
	if renderer.seenMarkdown != wantMD {
		t.Errorf("staged markdown =\n%q\nwant\n%q", renderer.seenMarkdown, wantMD)
	}

	if len(fetcher.requests) != 1 {
		t.Fatalf("fetches = %d, want 1", len(fetcher.requests))
	}
	if got := fetcher.requests[0]; got.Dir != filepath.Join(dir, AssetsDirName) || got.Filename != "shot_1.png" {
		t.Errorf("fetch = %+v", got)
	}

	if len(renderer.requests) != 1 {
		t.Fatalf("renders = %d, want 1", len(renderer.requests))
	}
	req := renderer.requests[0]
	if req.Workdir != dir || req.OutputPath != out || req.Font != "Arial" {
		t.Errorf("render request = %+v", req)
	}
	if req.HeaderPath != filepath.Join(dir, HeaderName) {
		t.Errorf("HeaderPath = %q", req.HeaderPath)
	}

	if res.OutputPath != out {
		t.Errorf("OutputPath = %q, want %q", res.OutputPath, out)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("PDF not written: %v", err)
	}
	if res.MarkdownPath != "" {
		t.Errorf("MarkdownPath = %q, want empty", res.MarkdownPath)
	}
	if _, err := os.Stat(filepath.Join(dir, MarkdownName)); !os.IsNotExist(err) {
		t.Error("card.md should be removed")
	}
	if _, err := os.Stat(res.HeaderPath); err != nil {
		t.Error("header.tex should be kept")
	}
	if len(res.Assets) != 1 || res.Assets[0].Name != "shot_1.png" {
		t.Errorf("Assets = %+v", res.Assets)
	}
}

func TestConverter_Convert_Options(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input func(dir, txt string) Input
		check func(t *testing.T, dir string, res *Result)
	}{
		{
			name: "keep markdown",
			input: func(dir, txt string) Input {
				return Input{TextPath: txt, OutputPath: filepath.Join(dir, "c.pdf"), KeepMarkdown: true}
			},
			check: func(t *testing.T, dir string, res *Result) {
				if res.MarkdownPath != filepath.Join(dir, MarkdownName) {
					t.Errorf("MarkdownPath = %q", res.MarkdownPath)
				}
				if _, err := os.Stat(res.MarkdownPath); err != nil {
					t.Errorf("card.md should be kept: %v", err)
				}
			},
		},
		{
			name: "custom workdir",
			input: func(dir, txt string) Input {
				return Input{TextPath: txt, OutputPath: filepath.Join(dir, "c.pdf"), Workdir: filepath.Join(dir, "stage")}
			},
			check: func(t *testing.T, dir string, res *Result) {
				if res.HeaderPath != filepath.Join(dir, "stage", HeaderName) {
					t.Errorf("HeaderPath = %q", res.HeaderPath)
				}
				if _, err := os.Stat(filepath.Join(dir, "stage", AssetsDirName)); err != nil {
					t.Errorf("assets dir missing: %v", err)
				}
			},
		},
		{
			name: "HTML preview",
			input: func(dir, txt string) Input {
				return Input{TextPath: txt, OutputPath: filepath.Join(dir, "c.pdf"), HTMLPreview: true}
			},
			check: func(t *testing.T, dir string, res *Result) {
				if res.HTMLPath != filepath.Join(dir, HTMLName) {
					t.Fatalf("HTMLPath = %q", res.HTMLPath)
				}
				page, err := os.ReadFile(res.HTMLPath)
				if err != nil {
					t.Fatal(err)
				}
				if !strings.Contains(string(page), "<h1") || !strings.Contains(string(page), `src="assets/`) {
					t.Errorf("preview missing heading or relative image:\n%s", page)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			txt := writeCard(t, dir, "# Card\n\n[a.png](http://x/a)")
			conv := NewConverter(WithFetcher(&mockFetcher{}), WithRenderer(&mockRenderer{}))

			res, err := conv.Convert(context.Background(), tt.input(dir, txt))
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			tt.check(t, dir, res)
		})
	}
}

func TestConverter_Convert_EmptyInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txt := writeCard(t, dir, "  \\n\\n  ")
	renderer := &mockRenderer{}
	fetcher := &mockFetcher{}
	conv := NewConverter(WithFetcher(fetcher), WithRenderer(renderer))

	res, err := conv.Convert(context.Background(), Input{TextPath: txt, OutputPath: filepath.Join(dir, "c.pdf")})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if renderer.seenMarkdown != EmptyPlaceholder {
		t.Errorf("staged markdown = %q, want placeholder", renderer.seenMarkdown)
	}
	if len(fetcher.requests) != 0 || len(res.Assets) != 0 {
		t.Error("no downloads expected")
	}
	entries, err := os.ReadDir(filepath.Join(dir, AssetsDirName))
	if err != nil || len(entries) != 0 {
		t.Errorf("assets dir should exist and be empty: %v %v", entries, err)
	}
}

func TestConverter_Convert_Errors(t *testing.T) {
	t.Parallel()

	renderFailure := errors.New("pandoc exploded")

	tests := []struct {
		name        string
		text        string
		noInput     bool
		fetcher     *mockFetcher
		renderer    *mockRenderer
		wantErr     error
		wantStaged  bool // card.md present after the failure
		wantRenders int
	}{
		{
			name:     "missing input path",
			noInput:  true,
			fetcher:  &mockFetcher{},
			renderer: &mockRenderer{},
			wantErr:  ErrReadInput,
		},
		{
			name:     "download failure stages nothing",
			text:     "[a.png](http://x/a)",
			fetcher:  &mockFetcher{failOn: map[string]error{"http://x/a": errors.New("exit status 22")}},
			renderer: &mockRenderer{},
			wantErr:  ErrDownload,
		},
		{
			name:        "render failure keeps card.md",
			text:        "body",
			fetcher:     &mockFetcher{},
			renderer:    &mockRenderer{err: renderFailure},
			wantErr:     renderFailure,
			wantStaged:  true,
			wantRenders: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			txt := filepath.Join(dir, "missing.txt")
			if !tt.noInput {
				txt = writeCard(t, dir, tt.text)
			}

			conv := NewConverter(WithFetcher(tt.fetcher), WithRenderer(tt.renderer))
			_, err := conv.Convert(context.Background(), Input{TextPath: txt, OutputPath: filepath.Join(dir, "c.pdf")})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}

			_, statErr := os.Stat(filepath.Join(dir, MarkdownName))
			if staged := statErr == nil; staged != tt.wantStaged {
				t.Errorf("card.md present = %v, want %v", staged, tt.wantStaged)
			}
			if len(tt.renderer.requests) != tt.wantRenders {
				t.Errorf("renders = %d, want %d", len(tt.renderer.requests), tt.wantRenders)
			}
		})
	}
}

func TestConverter_Convert_EmptyTextPath(t *testing.T) {
	t.Parallel()

	_, err := NewConverter(WithFetcher(&mockFetcher{}), WithRenderer(&mockRenderer{})).
		Convert(context.Background(), Input{})
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("error = %v, want ErrReadInput", err)
	}
}

func TestConverter_Convert_WarnsAboutMissingImages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txt := writeCard(t, dir, "![gone](assets/gone.png)\n[a.png](http://x/a)")

	var buf bytes.Buffer
	conv := NewConverter(
		WithFetcher(&mockFetcher{}),
		WithRenderer(&mockRenderer{}),
		WithLogger(log.New(&buf, log.LevelNormal)),
	)
	if _, err := conv.Convert(context.Background(), Input{TextPath: txt, OutputPath: filepath.Join(dir, "c.pdf")}); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "image not found") || !strings.Contains(out, "assets/gone.png") {
		t.Errorf("expected a warning for gone.png, got %q", out)
	}
	if strings.Contains(out, "assets/a.png") {
		t.Errorf("downloaded image should not be reported: %q", out)
	}
}

func TestConverter_DefaultsUseRunner(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txt := writeCard(t, dir, "[a.png](http://x/a)")
	runner := &mockRunner{}
	conv := NewConverter(WithRunner(runner), WithCredentials(NewCredentials(`"k"`, `"t"`)))

	// The mock runner writes nothing, so the converter succeeds without a PDF.
	if _, err := conv.Convert(context.Background(), Input{TextPath: txt, OutputPath: filepath.Join(dir, "c.pdf")}); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if len(runner.Calls) != 2 {
		t.Fatalf("runner calls = %d, want curl then pandoc", len(runner.Calls))
	}
	curl, pandoc := runner.Calls[0], runner.Calls[1]
	if curl.Name != DefaultCurlBinary || curl.Dir != filepath.Join(dir, AssetsDirName) {
		t.Errorf("first call = %+v", curl)
	}
	if !strings.Contains(strings.Join(curl.Args, " "), `oauth_consumer_key="k", oauth_token="t"`) {
		t.Errorf("curl args missing auth header: %q", curl.Args)
	}
	if pandoc.Name != DefaultPandocBinary || pandoc.Dir != dir {
		t.Errorf("second call = %+v", pandoc)
	}
}

func TestConverter_Close(t *testing.T) {
	t.Parallel()

	renderer := &mockRenderer{}
	if err := NewConverter(WithRenderer(renderer)).Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !renderer.closed {
		t.Error("Close should close a closable renderer")
	}

	// Pandoc holds nothing to release.
	if err := NewConverter().Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
