package event

// EventType represents the type of event.
type EventType string

const (
	// DocumentLoaded fires when a store reads its document from the main file.
	DocumentLoaded EventType = "document.loaded"
	// DocumentRecovered fires when the main file was unusable and the
	// document was recovered from the backup copy.
	DocumentRecovered EventType = "document.recovered"
	// DocumentCreated fires when no usable file existed and a fresh empty
	// document was initialized.
	DocumentCreated EventType = "document.created"
	// DocumentSaved fires after every successful write-through save.
	DocumentSaved EventType = "document.saved"
	// DocumentReloaded fires when the in-memory document was replaced from
	// disk, either by a restore or by an external edit to the main file.
	DocumentReloaded EventType = "document.reloaded"
	// DocumentCleared fires when the whole document was reset to empty.
	DocumentCleared EventType = "document.cleared"
	// BackupCreated fires after a backup snapshot was written.
	BackupCreated EventType = "backup.created"
	// KeySet fires after a value was stored at a path.
	KeySet EventType = "key.set"
	// KeyDeleted fires after a value was removed from a path.
	KeyDeleted EventType = "key.deleted"
)

// Event represents an event to be published.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// DocumentLoadedData is the data for document.loaded, document.recovered and
// document.created events.
type DocumentLoadedData struct {
	Source   string `json:"source"`
	Revision string `json:"revision"`
}

// DocumentSavedData is the data for document.saved events.
type DocumentSavedData struct {
	Revision string `json:"revision"`
}

// DocumentReloadedData is the data for document.reloaded events.
type DocumentReloadedData struct {
	Revision string `json:"revision"`
}

// DocumentClearedData is the data for document.cleared events.
type DocumentClearedData struct {
	Revision string `json:"revision"`
}

// BackupCreatedData is the data for backup.created events. Scheduled is true
// when the snapshot came from the periodic scheduler rather than an explicit
// call.
type BackupCreatedData struct {
	Revision  string `json:"revision"`
	Scheduled bool   `json:"scheduled"`
}

// KeySetData is the data for key.set events.
type KeySetData struct {
	Path     string `json:"path"`
	Value    any    `json:"value"`
	Revision string `json:"revision"`
}

// KeyDeletedData is the data for key.deleted events.
type KeyDeletedData struct {
	Path     string `json:"path"`
	Revision string `json:"revision"`
}
