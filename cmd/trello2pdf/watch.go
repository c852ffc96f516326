package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	trello2pdf "github.com/alnah/go-trello2pdf"
)

// watchDebounce coalesces the bursts of events editors emit for one save.
const watchDebounce = 200 * time.Millisecond

// watchAndConvert converts once, then again every time the --txt file
// changes, until ctx is cancelled. Conversion errors are reported and the
// watch continues; only watcher setup errors are returned.
func watchAndConvert(ctx context.Context, conv cardConverter, in trello2pdf.Input, env *Environment, logger *slog.Logger) error {
	target, err := filepath.Abs(in.TextPath)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", in.TextPath, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	// Watch the directory: editors often save by renaming a temp file over
	// the original, which drops a watch placed on the file itself.
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	rebuild := newRebuild(conv, in, env, logger)
	rebuild(ctx)
	fmt.Fprintf(env.Stderr, "watching %s (Ctrl+C to stop)\n", target)

	watchLoop(ctx, w.Events, w.Errors, target, watchDebounce, rebuild, logger)

	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

// newRebuild returns the conversion run on each change. Images downloaded
// by the previous run are removed first, so every rebuild stores them under
// the same names instead of piling up _1, _2, ... copies in assets/.
func newRebuild(conv cardConverter, in trello2pdf.Input, env *Environment, logger *slog.Logger) func(context.Context) {
	var prev []string
	return func(ctx context.Context) {
		removeFiles(prev, logger)
		prev = nil

		res, err := convertOnce(ctx, conv, in, env, logger)
		if err != nil {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
			return
		}
		prev = downloadedAssets(res)
	}
}

// downloadedAssets lists the files a conversion wrote under assets/. Every
// asset filename is chosen free on disk, so all of them belong to that run.
func downloadedAssets(res *trello2pdf.Result) []string {
	if res == nil || res.HeaderPath == "" {
		return nil
	}
	dir := filepath.Join(filepath.Dir(res.HeaderPath), trello2pdf.AssetsDirName)
	paths := make([]string, 0, len(res.Assets))
	for _, a := range res.Assets {
		paths = append(paths, filepath.Join(dir, a.Filename))
	}
	return paths
}

func removeFiles(paths []string, logger *slog.Logger) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("could not remove previous asset", "path", p, "error", err)
		}
	}
}

// watchLoop calls rebuild once per debounced burst of write, create or
// rename events on target. It returns when ctx is done or a channel closes.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, target string, delay time.Duration, rebuild func(context.Context), logger *slog.Logger) {
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce.Reset(delay)
			}
		case err, ok := <-errs:
			if !ok {
				return
			}
			logger.Warn("watcher error", "error", err)
		case <-debounce.C:
			rebuild(ctx)
		}
	}
}
