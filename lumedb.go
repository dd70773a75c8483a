/*
Package lumedb is an embedded, file-backed JSON document store.

A Store holds one JSON tree in memory, addressed with dot-separated paths,
and persists it write-through after every mutation: serialize, stage to a
temp file, validate the staged bytes, atomically replace the main file,
refresh the backup copy. On open the store self-heals from the best
available state (main file, then backup, then empty), so construction never
fails because of a corrupt or missing file. A background scheduler
re-snapshots the backup on a fixed interval.

# Files

Per configured folder and base filename F the store owns three artifacts:
F.json (the primary record), F.backup.json (the recovery copy) and
F.temp.json (transient, only present mid-save).

# Basic Usage

	db, err := lumedb.New(lumedb.Options{Folder: "data"})
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Set("user.name", "jane"); err != nil {
		return err
	}
	name, ok := db.Get("user.name")

	if _, err := db.Push("user.tags", "admin"); err != nil {
		return err
	}

Paths descend nested maps one dot-separated segment at a time. Set creates
missing intermediate maps; Get never errors, it reports absence. Values are
normalized through a JSON round trip on the way in, so what Get returns is
exactly what survives a restart.

# Events

Every state transition publishes a typed event on the store's bus:

	db.Events().Subscribe(event.KeySet, func(e event.Event) {
		data := e.Data.(event.KeySetData)
		log.Printf("set %s", data.Path)
	})

# Concurrency

A Store is safe for concurrent use from multiple goroutines. Reads return
deep copies. Mutations are serialized by a single writer lock and each one
is durable before the call returns; on a persistence failure the in-memory
change is kept and the error is surfaced, so memory can run ahead of disk
but never the other way around.
*/
package lumedb
