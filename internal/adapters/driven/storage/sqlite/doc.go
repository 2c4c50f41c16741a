// Package sqlite provides the SQLite-backed metadata store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. It persists canonical
// records keyed by (site_id, object_type, object_id) and the news articles
// appended by the conversational collaborator.
//
// # Upsert semantics
//
// Writes are last-write-wins: on key conflict every mutable column is
// overwritten and updated_at is refreshed. The upsert clears the stored
// embedding whenever the incoming text_blob differs from the stored one, so
// embedding invalidation is owned by the store and every mutating path
// inherits it.
//
// # Schema
//
// The database schema is managed through versioned migrations embedded from
// the migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.vizier/data/metadata.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode, which lets the embedding generator run
// concurrently with an indexing run.
package sqlite
