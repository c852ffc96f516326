package trello2pdf

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alnah/go-trello2pdf/internal/fileutil"
	"github.com/alnah/go-trello2pdf/internal/log"
)

// AssetsDirName is the directory, relative to the workdir, that receives
// downloaded images. Rewritten links point into it.
const AssetsDirName = "assets"

// maxCollisionProbes bounds the _1, _2, ... suffix search for a free filename.
const maxCollisionProbes = 10000

// imageLink matches [name.ext](url) for image extensions, case-insensitive.
// A leading "!" is consumed so existing image syntax is rewritten in place.
var imageLink = regexp.MustCompile(`(?i)(!?)\[([^\]]+\.(?:png|jpg|jpeg|gif|svg))\]\(([^)]+)\)`)

var (
	whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`) // includes Unicode spaces and BOM
	unsafeNameRun = regexp.MustCompile(`[^\w\-.]+`)
)

// ImageRef is one image link found in the card text.
type ImageRef struct {
	Name  string // display name as written
	URL   string // destination as written
	Start int    // byte offset of the match, including any "!"
	End   int
	Bang  bool
}

// Asset is one downloaded image.
type Asset struct {
	Name     string // normalized name
	URL      string
	Filename string // name under the assets directory
	Refs     int    // occurrences in the text
}

// FindImageRefs returns the image links in text, in order.
func FindImageRefs(text string) []ImageRef {
	matches := imageLink.FindAllStringSubmatchIndex(text, -1)
	refs := make([]ImageRef, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, ImageRef{
			Name:  text[m[4]:m[5]],
			URL:   text[m[6]:m[7]],
			Start: m[0],
			End:   m[1],
			Bang:  m[3] > m[2],
		})
	}
	return refs
}

// NormalizeName turns a display name into a safe filename: whitespace runs
// become "_", only the last "/" component is kept, and every run of
// characters outside [A-Za-z0-9_.-] becomes "_".
func NormalizeName(name string) string {
	base := whitespaceRun.ReplaceAllString(name, "_")
	base = path.Base(base)
	return unsafeNameRun.ReplaceAllString(base, "_")
}

// RewriterOption configures an AssetRewriter.
type RewriterOption func(*AssetRewriter)

// WithRewriterLogger sets the logger used for per-asset records.
func WithRewriterLogger(logger *slog.Logger) RewriterOption {
	return func(r *AssetRewriter) {
		r.logger = logger
	}
}

// AssetRewriter downloads the images a card references and points the
// links at the local copies.
type AssetRewriter struct {
	dir     string
	fetcher Fetcher
	logger  *slog.Logger
}

// NewAssetRewriter creates a rewriter saving into assetsDir through fetcher.
func NewAssetRewriter(assetsDir string, fetcher Fetcher, opts ...RewriterOption) *AssetRewriter {
	r := &AssetRewriter{
		dir:     assetsDir,
		fetcher: fetcher,
		logger:  log.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// dedupKey identifies one download: same normalized name and same raw URL.
type dedupKey struct {
	name string
	url  string
}

// Rewrite downloads every distinct image referenced by text and returns
// text with each reference replaced by
//
//	![<name>](assets/<filename>){ width=100% }
//
// Everything outside the matches is copied unchanged. Downloads run one at
// a time in document order; the first failure aborts with ErrDownload and
// no rewritten text. The assets directory is created even when text has no
// references.
func (r *AssetRewriter) Rewrite(ctx context.Context, text string) (string, []Asset, error) {
	if err := fileutil.EnsureDir(r.dir); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrStage, err)
	}

	refs := FindImageRefs(text)
	if len(refs) == 0 {
		return text, nil, nil
	}

	var (
		out      strings.Builder
		last     int
		assets   []Asset
		seen     = make(map[dedupKey]int, len(refs))
		reserved = make(map[string]bool, len(refs))
	)
	out.Grow(len(text))

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}

		name := NormalizeName(ref.Name)
		key := dedupKey{name: name, url: ref.URL}

		idx, ok := seen[key]
		if !ok {
			filename, err := r.freeFilename(name, reserved)
			if err != nil {
				return "", nil, err
			}
			reserved[filename] = true

			r.logger.Info("fetching image", "name", name, "file", filename, "url", ref.URL)
			req := FetchRequest{URL: ref.URL, Dir: r.dir, Filename: filename}
			if err := r.fetcher.Fetch(ctx, req); err != nil {
				return "", nil, fmt.Errorf("%w: %s: %w", ErrDownload, ref.URL, err)
			}

			assets = append(assets, Asset{Name: name, URL: ref.URL, Filename: filename})
			idx = len(assets) - 1
			seen[key] = idx
		} else {
			r.logger.Debug("reusing image", "name", name, "file", assets[idx].Filename)
		}
		assets[idx].Refs++

		out.WriteString(text[last:ref.Start])
		fmt.Fprintf(&out, "![%s](%s/%s){ width=100%% }", name, AssetsDirName, assets[idx].Filename)
		last = ref.End
	}
	out.WriteString(text[last:])

	return out.String(), assets, nil
}

// freeFilename returns name, or the first <stem>_<n><ext> that is neither
// on disk nor already assigned during this run.
func (r *AssetRewriter) freeFilename(name string, reserved map[string]bool) (string, error) {
	taken := func(candidate string) bool {
		return reserved[candidate] || fileutil.Exists(filepath.Join(r.dir, candidate))
	}

	if !taken(name) {
		return name, nil
	}

	stem, ext := splitExt(name)
	for n := 1; n <= maxCollisionProbes; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if !taken(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s (%d tried)", ErrTooManyCollisions, name, maxCollisionProbes)
}

// splitExt splits "cat.png" into "cat" and ".png". A leading dot alone does
// not start an extension: ".png" has stem ".png" and no extension.
func splitExt(name string) (stem, ext string) {
	ext = filepath.Ext(name)
	if ext == name {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}
