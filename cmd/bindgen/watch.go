package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vppapi/bindgen/compiler/gen"
)

// debounceDelay coalesces editor write bursts into one regeneration.
const debounceDelay = 300 * time.Millisecond

// watchAndRun runs one generation pass, then reruns it whenever the input
// tree changes. Generation failures while watching are logged, not fatal;
// only a broken watcher ends the loop.
func watchAndRun(ctx context.Context, cfg *gen.Config) error {
	log := cfg.Logger
	runOnce := func() {
		if err := gen.NewAssembler(cfg).Run(ctx); err != nil {
			log.Error().Err(err).Msg("generation failed")
		}
	}
	runOnce()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := addRecursive(w, cfg.InFile); err != nil {
		return err
	}
	log.Info().Str("root", cfg.InFile).Msg("watching for changes")

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addRecursive(w, ev.Name)
				}
			}
			log.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("change detected")
			if timer == nil {
				timer = time.AfterFunc(debounceDelay, func() { fire <- struct{}{} })
			} else {
				timer.Reset(debounceDelay)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		case <-fire:
			timer = nil
			runOnce()
		}
	}
}

// addRecursive watches root and every directory below it. fsnotify does
// not recurse on its own.
func addRecursive(w *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
