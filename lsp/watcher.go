package lsp

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/poresolver/jsast"
	"github.com/dhamidi/poresolver/pageobject"
	"github.com/dhamidi/poresolver/project"
)

// PublishFunc delivers the current diagnostics of one file; an empty slice
// clears them.
type PublishFunc func(path string, diagnostics []protocol.Diagnostic)

// Watcher re-validates page object files when they change on disk.
type Watcher struct {
	opts     pageobject.Options
	dir      string
	parser   *jsast.Parser
	publish  PublishFunc
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

func NewWatcher(opts pageobject.Options, parser *jsast.Parser, publish PublishFunc) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}

	dir := filepath.Join(opts.Root, opts.ObjectsDir)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "watch %s", dir)
	}

	return &Watcher{
		opts:     opts,
		dir:      dir,
		parser:   parser,
		publish:  publish,
		watcher:  fw,
		debounce: 200 * time.Millisecond,
		timers:   make(map[string]*time.Timer),
	}, nil
}

func (w *Watcher) Start() {
	go w.run()
}

func (w *Watcher) Stop() {
	w.watcher.Close()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// Scan validates every page object once and publishes the results.
func (w *Watcher) Scan(ctx context.Context) error {
	proj, err := project.LoadFrom(w.opts)
	if err != nil {
		return err
	}
	for _, obj := range proj.Objects {
		w.report(project.Validate(ctx, w.parser, obj))
	}
	return nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warningf("objects watcher: %s", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !w.relevant(event.Name) {
		return
	}
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		log.Debugf("page object removed: %s", event.Name)
		w.cancel(event.Name)
		w.publish(event.Name, []protocol.Diagnostic{})
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		w.schedule(event.Name)
	}
}

func (w *Watcher) relevant(path string) bool {
	if filepath.Dir(path) != w.dir || filepath.Ext(path) != w.opts.Extension {
		return false
	}
	base := filepath.Base(path)
	return w.opts.CompositeMarker == "" || !strings.Contains(base, w.opts.CompositeMarker)
}

// schedule coalesces bursts of writes to the same file.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		// A newer schedule, a cancel or Stop replaced this timer after it fired.
		current := !w.stopped && w.timers[path] == timer
		if current {
			delete(w.timers, path)
		}
		w.mu.Unlock()

		if current {
			w.Validate(context.Background(), path)
		}
	})
	w.timers[path] = timer
}

// cancel drops a pending check of path.
func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
		delete(w.timers, path)
	}
}

// Validate checks one page object file and publishes its diagnostics.
func (w *Watcher) Validate(ctx context.Context, path string) {
	base := strings.TrimSuffix(filepath.Base(path), w.opts.Extension)
	w.report(project.Validate(ctx, w.parser, &project.Object{Name: pageobject.NameOf(base), Path: path}))
}

func (w *Watcher) report(f project.Finding) {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}
	if f.Err == nil {
		w.publish(f.Object.Path, []protocol.Diagnostic{})
		return
	}
	log.Infof("page object %s: %s", f.Object.Path, f.Err)
	path, diag := diagnosticFor(f.Err, f.Object.Path, 0, diskSource)
	w.publish(path, []protocol.Diagnostic{diag})
}
