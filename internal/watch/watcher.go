// Package watch re-computes parameter hints for project files as they change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/paramhints/internal/debug"
	"github.com/standardbeagle/paramhints/internal/frontend"
	"github.com/standardbeagle/paramhints/internal/scan"
	"github.com/standardbeagle/paramhints/pkg/pathutil"
)

// Event reports the new hints of a changed file, or its removal.
// Paths are slash-separated and relative to the project root.
type Event struct {
	Path    string
	Result  *frontend.FileResult
	Removed bool
	Err     error
}

// Handler receives events from the watcher goroutine, one at a time.
// It must not call Stop.
type Handler func(Event)

type eventType int

const (
	eventChange eventType = iota
	eventRemove
)

// Watcher monitors the project tree and re-analyzes files whose content changed
type Watcher struct {
	watcher   *fsnotify.Watcher
	scanner   *scan.Scanner
	handler   Handler
	debouncer *eventDebouncer
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	stopOnce  sync.Once

	hashMu sync.Mutex
	hashes map[string]uint64
}

// New creates a watcher over the scanner's root. debounce is how long the
// tree has to be quiet before queued changes are analyzed.
func New(scanner *scan.Scanner, debounce time.Duration, handler Handler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		watcher:   fsw,
		scanner:   scanner,
		handler:   handler,
		debouncer: newEventDebouncer(debounce),
		ctx:       ctx,
		cancel:    cancel,
		hashes:    make(map[string]uint64),
	}, nil
}

// Start records the current content of every matching file and begins watching.
func (w *Watcher) Start() error {
	root := w.scanner.Root()
	debug.Log("watch", "starting watcher for %s\n", root)

	files, _, err := w.scanner.Discover(w.ctx)
	if err != nil {
		return err
	}
	for _, rel := range files {
		if data, err := os.ReadFile(w.abs(rel)); err == nil {
			w.hashes[rel] = xxhash.Sum64(data)
		}
	}

	if err := w.addWatches(root); err != nil {
		return fmt.Errorf("failed to add watches starting from %s: %w", root, err)
	}

	w.wg.Add(2)
	go w.processEvents()
	go w.debouncer.run(w.ctx, &w.wg, w.flush)

	log.Printf("Watching %d files under %s", len(files), root)
	return nil
}

// Stop stops watching and waits for the watcher goroutines to exit.
// Pending changes are dropped.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		w.cancel()
		err = w.watcher.Close()
		w.wg.Wait()
		log.Printf("File watcher stopped")
	})
	return err
}

func (w *Watcher) abs(rel string) string {
	return filepath.Join(w.scanner.Root(), filepath.FromSlash(rel))
}

func (w *Watcher) rel(path string) (string, bool) {
	return pathutil.Rel(w.scanner.Root(), path)
}

// addWatches watches dir and every non-excluded directory below it.
func (w *Watcher) addWatches(dir string) error {
	visited := make(map[string]bool)
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if rel, ok := w.rel(path); ok && !w.scanner.Match(rel, true) {
			return filepath.SkipDir
		}
		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			return nil
		}
		if visited[resolved] {
			return filepath.SkipDir
		}
		visited[resolved] = true

		if err := w.watcher.Add(path); err != nil {
			log.Printf("Warning: failed to add watch for %s: %v", path, err)
		}
		return nil
	})
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	rel, ok := w.rel(event.Name)
	if !ok {
		return
	}
	debug.Log("watch", "event %v for %s\n", event.Op, rel)

	info, err := os.Stat(event.Name)
	if err != nil {
		if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
			if w.tracked(rel) {
				w.debouncer.addEvent(rel, eventRemove)
			}
		}
		return
	}

	if info.IsDir() {
		if event.Has(fsnotify.Create) && w.scanner.Match(rel, true) {
			w.addDirectory(event.Name)
		}
		return
	}

	if !w.scanner.Match(rel, false) {
		return
	}
	if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
		w.debouncer.addEvent(rel, eventChange)
	}
}

// addDirectory watches a new directory and queues files written into it
// before the watch was in place.
func (w *Watcher) addDirectory(path string) {
	if err := w.addWatches(path); err != nil {
		log.Printf("Warning: failed to add watch for new directory %s: %v", path, err)
		return
	}
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if rel, ok := w.rel(p); ok && w.scanner.Match(rel, false) {
			w.debouncer.addEvent(rel, eventChange)
		}
		return nil
	})
}

func (w *Watcher) tracked(rel string) bool {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	_, ok := w.hashes[rel]
	return ok
}

// changed stores the content hash of rel and reports whether it differs
// from the previous one.
func (w *Watcher) changed(rel string, data []byte) bool {
	sum := xxhash.Sum64(data)
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	if prev, ok := w.hashes[rel]; ok && prev == sum {
		return false
	}
	w.hashes[rel] = sum
	return true
}

func (w *Watcher) flush(events map[string]eventType) {
	paths := make([]string, 0, len(events))
	for path := range events {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	start := time.Now()
	analyzed := 0
	for _, rel := range paths {
		if w.ctx.Err() != nil {
			return
		}
		if events[rel] == eventRemove {
			w.hashMu.Lock()
			delete(w.hashes, rel)
			w.hashMu.Unlock()
			w.handler(Event{Path: rel, Removed: true})
			continue
		}

		data, err := os.ReadFile(w.abs(rel))
		if err != nil {
			debug.Log("watch", "read %s: %v\n", rel, err)
			continue
		}
		if !w.changed(rel, data) {
			debug.Log("watch", "%s unchanged\n", rel)
			continue
		}
		res, err := w.scanner.AnalyzePath(w.ctx, rel)
		w.handler(Event{Path: rel, Result: res, Err: err})
		analyzed++
	}
	debug.Log("watch", "analyzed %d of %d queued files in %v\n", analyzed, len(paths), time.Since(start))
}

// eventDebouncer batches file events until the tree has been quiet for the debounce period
type eventDebouncer struct {
	events   map[string]eventType
	mutex    sync.Mutex
	debounce time.Duration
	kick     chan struct{}
}

func newEventDebouncer(debounce time.Duration) *eventDebouncer {
	return &eventDebouncer{
		events:   make(map[string]eventType),
		debounce: debounce,
		kick:     make(chan struct{}, 1),
	}
}

// addEvent records the latest event for path and restarts the quiet period.
func (d *eventDebouncer) addEvent(path string, kind eventType) {
	d.mutex.Lock()
	d.events[path] = kind
	d.mutex.Unlock()

	select {
	case d.kick <- struct{}{}:
	default:
	}
}

// run owns the debounce timer so that no timer goroutine outlives the watcher.
func (d *eventDebouncer) run(ctx context.Context, wg *sync.WaitGroup, flush func(map[string]eventType)) {
	defer wg.Done()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.kick:
			timer.Reset(d.debounce)
		case <-timer.C:
			d.mutex.Lock()
			events := d.events
			d.events = make(map[string]eventType)
			d.mutex.Unlock()
			if len(events) > 0 {
				flush(events)
			}
		}
	}
}
