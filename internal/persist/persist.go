// Package persist owns the on-disk artifacts of a store: the main data
// file, the backup copy used for recovery, and the temp file that stages
// atomic saves.
package persist

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/wizardsarehere/LumeDB/internal/document"
	"github.com/wizardsarehere/LumeDB/internal/logging"
)

// Source identifies where a loaded document came from.
type Source string

const (
	// SourceMain means the main file parsed and validated.
	SourceMain Source = "main"
	// SourceBackup means the main file was missing or corrupt and the
	// document was recovered from the backup copy.
	SourceBackup Source = "backup"
	// SourceEmpty means neither file was usable and a fresh empty
	// document was bootstrapped.
	SourceEmpty Source = "empty"
)

// Manager serializes documents to a folder on an afero filesystem and
// recovers them across restarts. All methods are safe for concurrent use.
type Manager struct {
	fs afero.Fs
	mu sync.Mutex

	folder   string
	file     string
	readable bool

	mainPath   string
	backupPath string
	tempPath   string

	// Hex SHA-256 of the main file bytes as last read or written by this
	// manager. Lets the watcher tell self-writes from external edits.
	lastSum string

	log zerolog.Logger
}

// NewManager creates a manager for the given folder and base filename.
// Nothing touches the disk until Load or a save.
func NewManager(fs afero.Fs, folder, file string, readable bool) *Manager {
	m := &Manager{
		fs:       fs,
		folder:   folder,
		file:     file,
		readable: readable,
		log:      logging.Component("persist"),
	}
	m.derivePathsLocked()
	return m
}

// derivePathsLocked recomputes the three artifact paths from folder+file.
func (m *Manager) derivePathsLocked() {
	m.mainPath = filepath.Join(m.folder, m.file+".json")
	m.backupPath = filepath.Join(m.folder, m.file+".backup.json")
	m.tempPath = filepath.Join(m.folder, m.file+".temp.json")
}

// Load reads the best available document: the main file first, the backup
// copy when the main file is missing or corrupt, and a fresh empty document
// when neither is usable. Corrupt or missing data never fails a Load; the
// only error case is a storage folder that cannot be created.
func (m *Manager) Load() (document.Document, Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fs.MkdirAll(m.folder, 0755); err != nil {
		return nil, SourceEmpty, fmt.Errorf("failed to create storage folder: %w", err)
	}

	if doc, ok := m.loadMainLocked(); ok {
		return doc, SourceMain, nil
	}
	if doc, ok := m.loadBackupLocked(); ok {
		return doc, SourceBackup, nil
	}

	doc := document.New()
	if err := m.saveLocked(doc); err != nil {
		m.log.Warn().Err(err).Msg("failed to persist initial empty document")
	}
	return doc, SourceEmpty, nil
}

// loadMainLocked reads and validates the main file, refreshing the backup
// copy on success.
func (m *Manager) loadMainLocked() (document.Document, bool) {
	data, err := afero.ReadFile(m.fs, m.mainPath)
	if err != nil {
		if !os.IsNotExist(err) {
			m.log.Warn().Err(err).Str("path", m.mainPath).Msg("failed to read main file")
		}
		return nil, false
	}

	doc, err := parseDocument(data)
	if err != nil {
		m.log.Warn().Err(err).Str("path", m.mainPath).Msg("main file failed validation")
		return nil, false
	}

	m.lastSum = Checksum(data)
	if err := m.writeBackupLocked(data); err != nil {
		m.log.Warn().Err(err).Str("path", m.backupPath).Msg("failed to refresh backup")
	}
	return doc, true
}

// loadBackupLocked reads and validates the backup copy, rewriting the main
// file from it on success.
func (m *Manager) loadBackupLocked() (document.Document, bool) {
	data, err := afero.ReadFile(m.fs, m.backupPath)
	if err != nil {
		if !os.IsNotExist(err) {
			m.log.Warn().Err(err).Str("path", m.backupPath).Msg("failed to read backup file")
		}
		return nil, false
	}

	doc, err := parseDocument(data)
	if err != nil {
		m.log.Warn().Err(err).Str("path", m.backupPath).Msg("backup file failed validation")
		return nil, false
	}

	m.log.Info().Str("path", m.backupPath).Msg("recovered document from backup")
	if err := m.saveLocked(doc); err != nil {
		m.log.Warn().Err(err).Msg("failed to rewrite main file from backup")
	}
	return doc, true
}

// Save atomically replaces the main file with the serialized document and
// refreshes the backup copy with the same bytes.
func (m *Manager) Save(doc document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked(doc)
}

// saveLocked writes the document to the temp file, reads it back and
// re-validates it, then renames it over the main file. A save whose bytes
// cannot be read back as a valid document leaves the main file untouched.
func (m *Manager) saveLocked(doc document.Document) error {
	data, err := m.marshalLocked(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	if err := afero.WriteFile(m.fs, m.tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	written, err := afero.ReadFile(m.fs, m.tempPath)
	if err != nil {
		m.fs.Remove(m.tempPath)
		return fmt.Errorf("failed to read back temp file: %w", err)
	}
	if _, err := parseDocument(written); err != nil {
		m.fs.Remove(m.tempPath)
		return fmt.Errorf("failed to validate temp file: %w", err)
	}

	if err := m.fs.Rename(m.tempPath, m.mainPath); err != nil {
		m.fs.Remove(m.tempPath)
		return fmt.Errorf("failed to replace main file: %w", err)
	}
	m.lastSum = Checksum(written)

	if err := m.writeBackupLocked(written); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// CreateBackup overwrites the backup file with the serialized document. The
// backup is the recovery source, not the primary record, so a single plain
// write suffices.
func (m *Manager) CreateBackup(doc document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := m.marshalLocked(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := m.writeBackupLocked(data); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

func (m *Manager) writeBackupLocked(data []byte) error {
	return afero.WriteFile(m.fs, m.backupPath, data, 0644)
}

func (m *Manager) marshalLocked(doc document.Document) ([]byte, error) {
	if m.readable {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

// ReadMain reads and validates the main file. On success the last-written
// checksum is updated to the file's current bytes, so repeated watcher
// notifications for the same content are treated as already seen.
func (m *Manager) ReadMain() (document.Document, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := afero.ReadFile(m.fs, m.mainPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read main file: %w", err)
	}
	doc, err := parseDocument(data)
	if err != nil {
		return nil, "", err
	}
	sum := Checksum(data)
	m.lastSum = sum
	return doc, sum, nil
}

// ReadBackup reads and validates the backup file.
func (m *Manager) ReadBackup() (document.Document, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := afero.ReadFile(m.fs, m.backupPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read backup file: %w", err)
	}
	doc, err := parseDocument(data)
	if err != nil {
		return nil, "", err
	}
	return doc, Checksum(data), nil
}

// Relocate re-points the manager at a new folder and base filename. The
// caller is expected to run Load against the new location afterwards.
func (m *Manager) Relocate(folder, file string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.folder = folder
	m.file = file
	m.derivePathsLocked()
	m.lastSum = ""
}

// SetReadable toggles pretty-printed serialization for subsequent writes.
func (m *Manager) SetReadable(readable bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readable = readable
}

// Folder returns the storage folder.
func (m *Manager) Folder() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.folder
}

// File returns the base filename.
func (m *Manager) File() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.file
}

// Readable reports whether writes are pretty-printed.
func (m *Manager) Readable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readable
}

// MainPath returns the path of the main data file.
func (m *Manager) MainPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mainPath
}

// BackupPath returns the path of the backup file.
func (m *Manager) BackupPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backupPath
}

// TempPath returns the path of the transient save-staging file.
func (m *Manager) TempPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tempPath
}

// LastChecksum returns the checksum of the main file bytes as last read or
// written by this manager, or the empty string before the first load.
func (m *Manager) LastChecksum() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSum
}

// Checksum returns the hex SHA-256 digest of data.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// parseDocument validates that data is well-formed JSON whose root is an
// object.
func parseDocument(data []byte) (document.Document, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: root is not an object", ErrInvalidDocument)
	}
	return doc, nil
}
