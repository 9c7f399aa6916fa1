// Package watcher reports changes to configuration files.
//
// It watches the directory holding each file rather than the file itself,
// so editors that save by rename-and-replace still produce events. Bursts
// of events on one file are coalesced and delivered once the file has been
// quiet for the debounce period.
package watcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/copyline/internal/logging"
)

// ErrClosed is returned when watching with a stopped watcher.
var ErrClosed = errors.New("watcher closed")

// Event represents a file change event.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the operation that triggered the event.
	Op Operation

	// Time is when the event occurred.
	Time time.Time
}

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates a new file was created.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove

	// OpRename indicates the file was renamed.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Handler is called when a file change is detected.
type Handler func(event Event)

// Watcher monitors files for changes.
type Watcher struct {
	mu       sync.RWMutex
	fsw      *fsnotify.Watcher
	files    map[string]struct{}
	dirs     map[string]int // watched directory -> number of files in it
	handlers []Handler
	debounce time.Duration
	logger   *logging.Logger
	running  bool
	done     chan struct{}
	wg       sync.WaitGroup

	pendingMu sync.Mutex
	pending   map[string]*pendingEvent
}

// pendingEvent stores a pending event with its operation for debouncing.
type pendingEvent struct {
	op    Operation
	time  time.Time
	timer *time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger used for watch errors.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		w.logger = logging.OrNull(l).WithComponent("watcher")
	}
}

// New creates a new file watcher.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]int),
		debounce: 100 * time.Millisecond,
		logger:   logging.NullLogger,
		done:     make(chan struct{}),
		pending:  make(map[string]*pendingEvent),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch adds a file to the watch list. The file need not exist yet.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsw == nil {
		return ErrClosed
	}
	if _, ok := w.files[absPath]; ok {
		return nil
	}
	dir := filepath.Dir(absPath)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[absPath] = struct{}{}
	return nil
}

// Unwatch removes a file from the watch list.
func (w *Watcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[absPath]; !ok {
		return nil
	}
	delete(w.files, absPath)
	dir := filepath.Dir(absPath)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		if w.fsw != nil {
			_ = w.fsw.Remove(dir)
		}
	}
	return nil
}

// OnChange registers a handler for file change events.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Start begins delivering events.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw == nil {
		return ErrClosed
	}
	if w.running {
		return nil
	}
	w.running = true
	w.wg.Add(1)
	go w.loop(w.fsw)
	return nil
}

// Stop stops watching and releases the underlying watcher. A stopped
// watcher cannot be restarted.
func (w *Watcher) Stop() {
	w.mu.Lock()
	fsw := w.fsw
	w.fsw = nil
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if fsw == nil {
		return
	}
	close(w.done)
	if err := fsw.Close(); err != nil {
		w.logger.Warn("closing file watcher: %v", err)
	}
	if wasRunning {
		w.wg.Wait()
	}

	w.pendingMu.Lock()
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.pendingMu.Unlock()
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// WatchedFiles returns the list of watched files.
func (w *Watcher) WatchedFiles() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	files := make([]string, 0, len(w.files))
	for path := range w.files {
		files = append(files, path)
	}
	return files
}

func (w *Watcher) loop(fsw *fsnotify.Watcher) {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error: %v", err)
		}
	}
}

func (w *Watcher) handleFSEvent(ev fsnotify.Event) {
	path, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}
	w.mu.RLock()
	_, watched := w.files[path]
	w.mu.RUnlock()
	if !watched {
		return
	}

	op, ok := translate(ev.Op)
	if !ok {
		return
	}
	event := Event{Path: path, Op: op, Time: time.Now()}
	w.logger.Debug("%s %s", op, path)
	if w.debounce <= 0 {
		w.emitEvent(event)
		return
	}
	w.queueEvent(event)
}

func translate(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemove, true
	case op.Has(fsnotify.Rename):
		return OpRename, true
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	default:
		return 0, false
	}
}

// queueEvent queues an event for debounced delivery, restarting the file's
// quiet period. Events coalesce as follows:
//   - remove wins over anything queued
//   - create is kept over a later write
//   - otherwise the latest operation wins
func (w *Watcher) queueEvent(event Event) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	p, exists := w.pending[event.Path]
	if !exists {
		p = &pendingEvent{op: event.Op}
		path := event.Path
		p.timer = time.AfterFunc(w.debounce, func() { w.flush(path) })
		w.pending[event.Path] = p
	} else {
		p.op = coalesce(p.op, event.Op)
		p.timer.Reset(w.debounce)
	}
	p.time = event.Time
}

func coalesce(queued, next Operation) Operation {
	switch {
	case next == OpRemove:
		return OpRemove
	case next == OpWrite && (queued == OpCreate || queued == OpRemove):
		return queued
	default:
		return next
	}
}

func (w *Watcher) flush(path string) {
	w.pendingMu.Lock()
	p, ok := w.pending[path]
	if ok {
		delete(w.pending, path)
	}
	w.pendingMu.Unlock()

	if ok {
		w.emitEvent(Event{Path: path, Op: p.op, Time: p.time})
	}
}

// emitEvent calls all handlers with the event.
func (w *Watcher) emitEvent(event Event) {
	w.mu.RLock()
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.RUnlock()

	for _, handler := range handlers {
		w.safeCallHandler(handler, event)
	}
}

// safeCallHandler calls a handler with panic recovery.
func (w *Watcher) safeCallHandler(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("handler panic on %s: %v", event.Path, r)
		}
	}()
	handler(event)
}
