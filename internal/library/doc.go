// Package library persists the media catalog in SQLite and exposes the record
// operations the verification workflows need.
//
// A MediaFile row stores the file's path, its media format tag, and the stored
// content checksum (absent until first computed). The Store manages database
// connections, schema initialization, and queries; checksum mutations are
// persisted through Store.Update, which is the only write path the
// verification core uses.
//
// Treat this package as the single source of truth for catalog semantics; when
// you add new fields, update schema.sql and bump schemaVersion.
package library
