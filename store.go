package lumedb

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/wizardsarehere/LumeDB/event"
	"github.com/wizardsarehere/LumeDB/internal/backup"
	"github.com/wizardsarehere/LumeDB/internal/document"
	"github.com/wizardsarehere/LumeDB/internal/logging"
	"github.com/wizardsarehere/LumeDB/internal/persist"
	"github.com/wizardsarehere/LumeDB/internal/updatecheck"
	"github.com/wizardsarehere/LumeDB/internal/watcher"
)

// Store is an embedded JSON document store: one JSON tree held in memory,
// addressed with dot-separated paths, persisted write-through after every
// mutation, and recoverable from a backup copy.
//
// A Store is safe for concurrent use. Reads return deep copies, so callers
// can never reach into the live tree. Events are published synchronously
// after the store's locks are released; subscribers observe mutations in
// order and may call back into the store.
type Store struct {
	mu  sync.RWMutex
	doc document.Document

	manager   *persist.Manager
	scheduler *backup.Scheduler
	bus       *event.Bus
	watcher   *watcher.Watcher
	checker   *updatecheck.Checker

	opts     Options
	revision string
	closed   bool

	log zerolog.Logger
}

// New opens a store. Construction never fails because of a missing or
// corrupt data file; the store self-heals from the backup copy or starts
// empty. It does fail for invalid options or a storage folder that cannot
// be created.
func New(opts Options) (*Store, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	s := &Store{
		manager: persist.NewManager(opts.FS, opts.Folder, opts.File, opts.Readable),
		bus:     event.NewBus(),
		opts:    opts,
		log:     logging.Component("store"),
	}

	source, err := s.load()
	if err != nil {
		return nil, err
	}

	sched, err := backup.NewScheduler(opts.BackupInterval, s.backupSnapshot)
	if err != nil {
		return nil, err
	}
	s.scheduler = sched
	s.scheduler.Start()

	if opts.Watch {
		if err := s.startWatcher(); err != nil {
			s.scheduler.Stop()
			return nil, fmt.Errorf("failed to start watcher: %w", err)
		}
	}

	if opts.CheckUpdates {
		s.checker = updatecheck.NewChecker(Version)
		s.checker.Start()
	}

	s.publishLoad(source)
	return s, nil
}

// load runs the recovery chain and installs the result.
func (s *Store) load() (persist.Source, error) {
	doc, source, err := s.manager.Load()
	if err != nil {
		return source, err
	}

	s.mu.Lock()
	s.doc = doc
	s.revision = ulid.Make().String()
	s.mu.Unlock()

	s.log.Debug().Str("source", string(source)).Str("path", s.manager.MainPath()).Msg("document loaded")
	return source, nil
}

// publishLoad translates the load source into the matching event.
func (s *Store) publishLoad(source persist.Source) {
	data := event.DocumentLoadedData{Source: string(source), Revision: s.Revision()}
	switch source {
	case persist.SourceMain:
		s.bus.PublishSync(event.Event{Type: event.DocumentLoaded, Data: data})
	case persist.SourceBackup:
		s.bus.PublishSync(event.Event{Type: event.DocumentRecovered, Data: data})
	default:
		s.bus.PublishSync(event.Event{Type: event.DocumentCreated, Data: data})
	}
}

// persistLocked saves the document and advances the revision. Callers hold
// the write lock.
func (s *Store) persistLocked() (string, error) {
	if err := s.manager.Save(s.doc); err != nil {
		return "", fmt.Errorf("failed to persist document: %w", err)
	}
	s.revision = ulid.Make().String()
	return s.revision, nil
}

// Get returns a deep copy of the value stored at path. The second return
// is false when the path is absent.
func (s *Store) Get(path string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := document.Get(s.doc, path)
	if !ok {
		return nil, false
	}
	return document.CloneValue(v), true
}

// Has reports whether a value exists at path.
func (s *Store) Has(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return document.Has(s.doc, path)
}

// Set stores value at path, creating intermediate maps for missing
// segments, and persists the document. The value is normalized through a
// JSON round trip first, so it is returned exactly as it will read back.
// On a persistence failure the in-memory change is kept, no event fires
// and the revision does not advance.
func (s *Store) Set(path string, value any) (any, error) {
	norm, err := document.Normalize(value)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if err := document.Set(s.doc, path, norm); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	rev, err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := document.CloneValue(norm)
	s.bus.PublishSync(event.Event{Type: event.KeySet, Data: event.KeySetData{Path: path, Value: out, Revision: rev}})
	s.bus.PublishSync(event.Event{Type: event.DocumentSaved, Data: event.DocumentSavedData{Revision: rev}})
	return out, nil
}

// Delete removes the value at path, persists and reports whether anything
// was removed. With Options.NoBlankData set, containers left empty by the
// removal are pruned. Deleting an absent path does not touch the disk.
func (s *Store) Delete(path string) (bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, ErrClosed
	}
	if !document.Delete(s.doc, path, s.opts.NoBlankData) {
		s.mu.Unlock()
		return false, nil
	}
	rev, err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return true, err
	}

	s.bus.PublishSync(event.Event{Type: event.KeyDeleted, Data: event.KeyDeletedData{Path: path, Revision: rev}})
	s.bus.PublishSync(event.Event{Type: event.DocumentSaved, Data: event.DocumentSavedData{Revision: rev}})
	return true, nil
}

// All returns a deep copy of the whole document.
func (s *Store) All() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return document.Clone(s.doc)
}

// Clear resets the document to empty and persists.
func (s *Store) Clear() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.doc = document.New()
	rev, err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.bus.PublishSync(event.Event{Type: event.DocumentCleared, Data: event.DocumentClearedData{Revision: rev}})
	s.bus.PublishSync(event.Event{Type: event.DocumentSaved, Data: event.DocumentSavedData{Revision: rev}})
	return nil
}

// mutateSequence runs one sequence operation, persists and publishes. The
// returned slice is a deep copy detached from the tree.
func (s *Store) mutateSequence(path string, op func(document.Document) ([]any, error)) ([]any, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	seq, err := op(s.doc)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	rev, err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := document.CloneSequence(seq)
	s.bus.PublishSync(event.Event{Type: event.KeySet, Data: event.KeySetData{Path: path, Value: out, Revision: rev}})
	s.bus.PublishSync(event.Event{Type: event.DocumentSaved, Data: event.DocumentSavedData{Revision: rev}})
	return out, nil
}

// Push appends value to the sequence at path, creating it when the path is
// absent, and returns the resulting sequence.
func (s *Store) Push(path string, value any) ([]any, error) {
	norm, err := document.Normalize(value)
	if err != nil {
		return nil, err
	}
	return s.mutateSequence(path, func(doc document.Document) ([]any, error) {
		return document.Push(doc, path, norm)
	})
}

// Unpush removes every element deep-equal to value from the sequence at
// path and returns what remains.
func (s *Store) Unpush(path string, value any) ([]any, error) {
	norm, err := document.Normalize(value)
	if err != nil {
		return nil, err
	}
	return s.mutateSequence(path, func(doc document.Document) ([]any, error) {
		return document.Unpush(doc, path, norm)
	})
}

// SetByPriority replaces the element at the 1-based position priority in
// the sequence at path. Positions outside the sequence are rejected with
// ErrPriorityOutOfRange; sequences are never extended with holes.
func (s *Store) SetByPriority(path string, value any, priority int) ([]any, error) {
	norm, err := document.Normalize(value)
	if err != nil {
		return nil, err
	}
	return s.mutateSequence(path, func(doc document.Document) ([]any, error) {
		return document.SetByPriority(doc, path, norm, priority)
	})
}

// DelByPriority removes the element at the 1-based position priority from
// the sequence at path. Positions outside the sequence leave it unchanged.
func (s *Store) DelByPriority(path string, priority int) ([]any, error) {
	return s.mutateSequence(path, func(doc document.Document) ([]any, error) {
		return document.DelByPriority(doc, path, priority)
	})
}

// Keys lists the child keys of the map at path in sorted order; the empty
// path lists the root. The second return is false when path is absent or
// its value is not a map.
func (s *Store) Keys(path string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return document.Keys(s.doc, path)
}

// Find flattens the document to dot paths and returns the leaves whose
// path matches pattern. A "*" matches one segment, "**" matches any run of
// segments.
func (s *Store) Find(pattern string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, err := document.Match(s.doc, pattern)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(res))
	for k, v := range res {
		out[k] = document.CloneValue(v)
	}
	return out, nil
}

// Revision identifies the current persisted state. It changes on every
// successful save.
func (s *Store) Revision() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Backup writes an immediate backup snapshot.
func (s *Store) Backup() error {
	return s.snapshot(false)
}

// backupSnapshot is the scheduler's periodic callback.
func (s *Store) backupSnapshot() error {
	return s.snapshot(true)
}

// snapshot copies the document under the read lock and serializes the copy
// outside it, so a slow disk never blocks foreground mutations.
func (s *Store) snapshot(scheduled bool) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	doc := document.Clone(s.doc)
	rev := s.revision
	s.mu.RUnlock()

	if err := s.manager.CreateBackup(doc); err != nil {
		return err
	}
	s.bus.PublishSync(event.Event{Type: event.BackupCreated, Data: event.BackupCreatedData{Revision: rev, Scheduled: scheduled}})
	return nil
}

// Restore replaces the in-memory document with the backup file's content
// and rewrites the main file from it.
func (s *Store) Restore() error {
	doc, _, err := s.manager.ReadBackup()
	if err != nil {
		return fmt.Errorf("failed to restore from backup: %w", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.doc = doc
	rev, err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.bus.PublishSync(event.Event{Type: event.DocumentReloaded, Data: event.DocumentReloadedData{Revision: rev}})
	return nil
}

// SetFolder moves the store to a different storage folder and reloads from
// whatever exists there. Files at the old location are left behind.
func (s *Store) SetFolder(folder string) error {
	return s.relocate(folder, "")
}

// SetFile changes the base filename and reloads from the new location.
func (s *Store) SetFile(file string) error {
	return s.relocate("", file)
}

// relocate re-points the persistence paths and re-runs the recovery chain
// against the new location. An empty folder or file keeps the current one.
// The watcher is restarted for the new folder; a restart failure is logged
// and the relocation stands.
func (s *Store) relocate(folder, file string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	if folder == "" {
		folder = s.manager.Folder()
	}
	if file == "" {
		file = s.manager.File()
	}

	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			s.log.Warn().Err(err).Msg("failed to stop watcher")
		}
		s.watcher = nil
	}

	s.manager.Relocate(folder, file)
	doc, source, err := s.manager.Load()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.doc = doc
	s.revision = ulid.Make().String()

	if s.opts.Watch {
		if err := s.startWatcher(); err != nil {
			s.log.Warn().Err(err).Msg("failed to restart watcher after relocation")
		}
	}
	s.mu.Unlock()

	s.log.Info().Str("path", s.manager.MainPath()).Msg("store relocated")
	s.publishLoad(source)
	return nil
}

// SetReadable toggles pretty-printed persistence and rewrites the files in
// the new format.
func (s *Store) SetReadable(readable bool) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.manager.SetReadable(readable)
	s.opts.Readable = readable
	rev, err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.bus.PublishSync(event.Event{Type: event.DocumentSaved, Data: event.DocumentSavedData{Revision: rev}})
	return nil
}

// SetBackupInterval changes the backup period. Invalid intervals are
// rejected and the running schedule keeps its period.
func (s *Store) SetBackupInterval(interval time.Duration) error {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	// Reconfigure waits for an in-flight snapshot, which takes the read
	// lock, so it must run with no store lock held.
	if err := s.scheduler.Reconfigure(interval); err != nil {
		return err
	}

	s.mu.Lock()
	s.opts.BackupInterval = interval
	s.mu.Unlock()
	return nil
}

// Events returns the store's event bus.
func (s *Store) Events() *event.Bus {
	return s.bus
}

// Folder returns the storage folder.
func (s *Store) Folder() string {
	return s.manager.Folder()
}

// File returns the base filename.
func (s *Store) File() string {
	return s.manager.File()
}

// MainPath returns the path of the main data file.
func (s *Store) MainPath() string {
	return s.manager.MainPath()
}

// BackupPath returns the path of the backup file.
func (s *Store) BackupPath() string {
	return s.manager.BackupPath()
}

// startWatcher creates and starts a watcher for the current folder.
func (s *Store) startWatcher() error {
	w, err := watcher.NewWatcher(s.manager.Folder(), filepath.Base(s.manager.MainPath()), s.handleExternalChange)
	if err != nil {
		return err
	}
	s.watcher = w
	w.Start()
	return nil
}

// handleExternalChange runs on the watcher's dispatch goroutine when the
// main file changes on disk. Self-writes are recognized by checksum and
// ignored; a corrupt edit is logged and the in-memory document stands.
func (s *Store) handleExternalChange() {
	before := s.manager.LastChecksum()
	doc, sum, err := s.manager.ReadMain()
	if err != nil {
		s.log.Warn().Err(err).Msg("ignoring unreadable external edit")
		return
	}
	if sum == before {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.doc = doc
	s.revision = ulid.Make().String()
	rev := s.revision
	s.mu.Unlock()

	s.log.Info().Str("path", s.manager.MainPath()).Msg("reloaded document after external edit")
	s.bus.PublishSync(event.Event{Type: event.DocumentReloaded, Data: event.DocumentReloadedData{Revision: rev}})
}

// Close stops the background goroutines and the event bus. The document
// stays readable; mutations fail with ErrClosed. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	// Stop order matters: the scheduler and watcher callbacks take the
	// store's locks, so they are stopped with no lock held.
	s.scheduler.Stop()
	if w != nil {
		if err := w.Stop(); err != nil {
			s.log.Warn().Err(err).Msg("failed to stop watcher")
		}
	}
	if s.checker != nil {
		s.checker.Stop()
	}
	return s.bus.Close()
}
