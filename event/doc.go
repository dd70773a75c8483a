/*
Package event provides the pub/sub notification system for LumeDB stores.

Every store owns a Bus and publishes an event for each state transition it
goes through: loads and recoveries, write-through saves, key mutations,
backup snapshots and reloads. Subscribers attach to a single event type or
to the whole stream and receive typed payloads without polling the store.

# Architecture

The package is built on top of watermill's gochannel for infrastructure
while keeping direct-call semantics so payloads keep their Go types. Both
synchronous and asynchronous publishing are available; the store publishes
synchronously after releasing its own locks, so subscriber callbacks run in
the mutating goroutine and observe events in mutation order.

# Event Types

Document lifecycle:
  - document.loaded: document read from the main file
  - document.recovered: document recovered from the backup copy
  - document.created: fresh empty document initialized
  - document.saved: write-through save completed
  - document.reloaded: in-memory document replaced from disk
  - document.cleared: document reset to empty

Mutations and backups:
  - key.set: value stored at a path
  - key.deleted: value removed from a path
  - backup.created: backup snapshot written

# Basic Usage

Subscribing to specific events:

	unsubscribe := store.Events().Subscribe(event.KeySet, func(e event.Event) {
		data := e.Data.(event.KeySetData)
		log.Printf("set %s at revision %s", data.Path, data.Revision)
	})
	defer unsubscribe()

Subscribing to all events:

	unsubscribe := store.Events().SubscribeAll(func(e event.Event) {
		log.Printf("event %s", e.Type)
	})
	defer unsubscribe()

# Subscriber Safety Guidelines

Synchronously delivered subscribers run in the publisher's goroutine. To
avoid blocking or deadlocks, subscribers MUST:

  - Complete quickly (avoid long-running operations)
  - Use non-blocking channel sends (select with default case)
  - Never publish from within a subscriber (no re-entrant publishing)

Calling back into the store from a subscriber is safe: events are published
after the store's locks are released.

# Integration with Watermill

The bus uses watermill's gochannel internally and exposes it through
PubSub() for middleware, routing, or a future switch to a distributed
broker.
*/
package event
