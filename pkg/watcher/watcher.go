// Package watcher reports changes to the document file so the navigator can
// reload it. It watches the containing directory with fsnotify, which keeps
// working across the rename-over saves most editors do, and polls the file
// when fsnotify is unavailable.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/davidRoussov/json-to-terminal/pkg/debug"
)

// ForcePollEnv selects polling when set to a true value.
const ForcePollEnv = "TOOEY_FORCE_POLL"

// DefaultPollInterval is used when Options.PollInterval is not positive.
const DefaultPollInterval = time.Second

var (
	ErrRemoved = errors.New("document was removed")
	ErrRunning = errors.New("watcher is already running")
)

// Options tune a Watcher. The zero value is ready to use.
type Options struct {
	Debounce     time.Duration
	PollInterval time.Duration
	ForcePoll    bool
}

// Watcher follows one document file. Changes and errors are delivered on
// buffered channels holding at most one pending item each.
type Watcher struct {
	path string
	opts Options

	changes chan struct{}
	errs    chan error
	settle  *debouncer

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	polling bool
}

// New prepares a watcher for path. Nothing is watched until Start.
func New(path string, opts Options) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if v, err := strconv.ParseBool(os.Getenv(ForcePollEnv)); err == nil && v {
		opts.ForcePoll = true
	}
	w := &Watcher{
		path:    abs,
		opts:    opts,
		changes: make(chan struct{}, 1),
		errs:    make(chan error, 1),
	}
	w.settle = newDebouncer(opts.Debounce, w.emitChange)
	return w, nil
}

// Start watches until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return ErrRunning
	}

	last, err := stat(w.path)
	if err != nil && errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})

	var fsw *fsnotify.Watcher
	if !w.opts.ForcePoll {
		fsw, err = openNotify(filepath.Dir(w.path))
		if err != nil {
			debug.Log("watcher: falling back to polling: %v", err)
		}
	}
	w.polling = fsw == nil

	if w.polling {
		go w.poll(ctx, last)
	} else {
		go w.notify(ctx, fsw)
	}
	debug.Log("watcher: following %s (polling=%v)", w.path, w.polling)
	return nil
}

// Stop ends watching and waits for the watch loop to exit. The channels
// stay open.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	w.settle.stop()
}

func (w *Watcher) Changed() <-chan struct{} { return w.changes }
func (w *Watcher) Errors() <-chan error     { return w.errs }
func (w *Watcher) Path() string             { return w.path }

// Polling reports whether the watcher stats the file instead of using
// fsnotify.
func (w *Watcher) Polling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

func openNotify(dir string) (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return fsw, nil
}

func (w *Watcher) notify(ctx context.Context, fsw *fsnotify.Watcher) {
	defer close(w.done)
	defer fsw.Close()

	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Has(fsnotify.Remove) {
				w.emitError(ErrRemoved)
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.settle.kick()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.emitError(err)
		}
	}
}

// fileStamp identifies one version of the file for polling.
type fileStamp struct {
	mod  int64
	size int64
}

// stat returns the zero stamp for a missing file.
func stat(path string) (fileStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{mod: info.ModTime().UnixNano(), size: info.Size()}, nil
}

func (w *Watcher) poll(ctx context.Context, last fileStamp) {
	defer close(w.done)

	tick := time.NewTicker(w.opts.PollInterval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}

		cur, err := stat(w.path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			if last != (fileStamp{}) {
				w.emitError(ErrRemoved)
			}
			last = fileStamp{}
		case err != nil:
			w.emitError(err)
		case cur != last:
			last = cur
			w.settle.kick()
		}
	}
}

func (w *Watcher) emitChange() {
	debug.Log("watcher: %s changed", w.path)
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

func (w *Watcher) emitError(err error) {
	debug.Log("watcher: %s: %v", w.path, err)
	select {
	case w.errs <- err:
	default:
	}
}
