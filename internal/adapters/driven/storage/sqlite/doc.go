// Package sqlite provides a SQLite-backed ScanCatalog.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Scan records are stored in a single table; module names,
// matched type IDs and failure messages are JSON-encoded columns.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.typefinder/data/catalog.db
package sqlite
