// Package watcher notices external edits to a store's main data file.
package watcher

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/wizardsarehere/LumeDB/internal/logging"
)

// Watcher monitors a storage folder and invokes a callback whenever the
// main data file changes on disk, including the owning process's own
// saves. Callers tell self-writes apart from external edits by checksum.
type Watcher struct {
	fw       *fsnotify.Watcher
	folder   string
	fileName string
	onChange func()

	notifyCh chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool
	mu       sync.Mutex

	log zerolog.Logger
}

// NewWatcher creates a watcher for the file named fileName inside folder.
// The callback runs on its own goroutine, never on the filesystem event
// loop, so it may take the store's locks.
func NewWatcher(folder, fileName string, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the folder itself. Watching the file directly misses atomic
	// replaces, which swap the inode under the old name.
	if err := fw.Add(folder); err != nil {
		fw.Close()
		return nil, err
	}

	return &Watcher{
		fw:       fw,
		folder:   folder,
		fileName: fileName,
		onChange: onChange,
		notifyCh: make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		log:      logging.Component("watcher"),
	}, nil
}

// Start begins watching. Starting twice is a no-op.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()
	go w.dispatch()
	go w.run()
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	defer close(w.notifyCh)

	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Base(ev.Name) != w.fileName {
				continue
			}
			// Coalesce bursts; one pending notification is enough.
			select {
			case w.notifyCh <- struct{}{}:
			default:
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("filesystem watcher error")
		}
	}
}

// dispatch runs the callback off the event loop so a slow handler cannot
// back up filesystem events.
func (w *Watcher) dispatch() {
	for range w.notifyCh {
		w.onChange()
	}
}

// Stop halts the event loop. The callback goroutine drains any pending
// notification and exits on its own, so Stop never blocks on a handler
// that is waiting for a lock.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()

	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
	}

	if started {
		<-w.doneCh
	}
	return w.fw.Close()
}
