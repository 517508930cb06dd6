package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/gamestate/pkg/runner"
	"github.com/fsnotify/fsnotify"
)

// settleDelay groups the bursts of events editors produce on save.
const settleDelay = 100 * time.Millisecond

// fileWatcher reports changes to a single file. The parent directory is
// watched because editors often replace files by rename.
type fileWatcher struct {
	w    *fsnotify.Watcher
	path string
}

func newFileWatcher(path string) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &fileWatcher{w: w, path: abs}, nil
}

// Changed blocks until the file is written, created or replaced. It returns
// false when ctx ends or the watcher is closed.
func (fw *fileWatcher) Changed(ctx context.Context) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-fw.w.Events:
			if !ok {
				return false
			}
			if fw.matches(ev) {
				fw.settle(ctx)
				return ctx.Err() == nil
			}
		case _, ok := <-fw.w.Errors:
			if !ok {
				return false
			}
		}
	}
}

func (fw *fileWatcher) matches(ev fsnotify.Event) bool {
	return filepath.Clean(ev.Name) == fw.path &&
		ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename)
}

// settle drains events until none arrived for settleDelay.
func (fw *fileWatcher) settle(ctx context.Context) {
	timer := time.NewTimer(settleDelay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			return
		case _, ok := <-fw.w.Events:
			if !ok {
				return
			}
			timer.Reset(settleDelay)
		}
	}
}

// Close stops watching.
func (fw *fileWatcher) Close() error {
	return fw.w.Close()
}

// RunWatch runs the definition and restarts the session from the top every
// time the file changes. A definition that fails to load is reported and
// retried on the next change. Returns on SIGINT/SIGTERM or ctx cancellation.
func RunWatch(ctx context.Context, opts RunOptions, streams Streams) error {
	if opts.Stdin {
		return fmt.Errorf("--watch and --stdin cannot be used together")
	}

	sm := runner.NewSignalManager(ctx)
	defer sm.Stop()
	ctx = sm.Context()
	opts.Signals = false

	fw, err := newFileWatcher(opts.Path)
	if err != nil {
		return err
	}
	defer fw.Close()

	printSystemMessage(streams.Out, "Watching %s for changes.", opts.Path)
	for runWatchIteration(ctx, opts, streams, fw) {
		printSystemMessage(streams.Out, "Change detected, reloading %s.", opts.Path)
	}
	return nil
}

// runWatchIteration runs one session and reports whether to reload.
func runWatchIteration(ctx context.Context, opts RunOptions, streams Streams, fw *fileWatcher) bool {
	sctx, cancel := context.WithCancel(ctx)
	defer cancel()

	changed := make(chan bool, 1)
	go func() {
		changed <- fw.Changed(sctx)
		cancel()
	}()

	if err := RunSession(sctx, opts, streams); err != nil {
		printSystemMessage(streams.Err, "Error: %v", err)
	}
	if ctx.Err() != nil {
		return false
	}
	// A finished or failed session waits for the next edit.
	return <-changed
}
