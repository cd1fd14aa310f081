// Package sqlite provides a SQLite-based implementation of the model and run
// stores.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Both stores share a single database connection:
//
//   - ModelStore: model documents keyed by namespace, stored as JSON
//   - RunStore: resolution run history
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/
// directory. Each migration is a pair of .up.sql and .down.sql files and
// applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.metaresolve/data/metaresolve.db
package sqlite
