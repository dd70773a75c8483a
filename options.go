package lumedb

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/afero"
)

const (
	// DefaultFolder is the storage directory used when none is configured.
	DefaultFolder = "lumedb"
	// DefaultFile is the base filename used when none is configured.
	DefaultFile = "data"
	// DefaultBackupInterval is the period of the backup scheduler.
	DefaultBackupInterval = 5 * time.Minute
)

// Options configures a Store. The zero value is usable; zero fields take
// the defaults.
type Options struct {
	// Folder is the storage directory, created if absent.
	Folder string

	// File is the base filename. The store derives File.json,
	// File.backup.json and File.temp.json from it.
	File string

	// Readable pretty-prints the persisted JSON.
	Readable bool

	// NoBlankData prunes containers left empty by a delete, walking from
	// the deleted key's parent toward the root.
	NoBlankData bool

	// BackupInterval is the period of the background backup snapshot.
	// Must be positive.
	BackupInterval time.Duration

	// CheckUpdates looks up the latest published release in the background
	// and logs a notice when it is newer than this build.
	CheckUpdates bool

	// Watch reloads the document when another program edits the main file.
	// Requires the OS filesystem.
	Watch bool

	// FS overrides the filesystem, mainly for tests. Defaults to the OS
	// filesystem.
	FS afero.Fs
}

// DefaultOptions returns the options a zero-value Options resolves to.
func DefaultOptions() Options {
	return Options{
		Folder:         DefaultFolder,
		File:           DefaultFile,
		BackupInterval: DefaultBackupInterval,
	}
}

// withDefaults fills zero fields with their defaults.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Folder == "" {
		o.Folder = def.Folder
	}
	if o.File == "" {
		o.File = def.File
	}
	if o.BackupInterval == 0 {
		o.BackupInterval = def.BackupInterval
	}
	if o.FS == nil {
		o.FS = afero.NewOsFs()
	}
	return o
}

// validate rejects option values the store cannot run with. Runs after
// withDefaults.
func (o Options) validate() error {
	if o.BackupInterval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, o.BackupInterval)
	}
	if o.Watch {
		if _, ok := o.FS.(*afero.OsFs); !ok {
			return errors.New("watch requires the OS filesystem")
		}
	}
	return nil
}
