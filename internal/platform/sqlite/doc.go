// Package sqlite provides SQLite implementations of the internal/store interfaces
// on top of sqlx and mattn/go-sqlite3. It is meant for single-user and local
// deployments: the pool holds one connection so writes are serialized.
// Dates are stored as YYYY-MM-DD text and timestamps as fixed-width UTC RFC 3339 text.
package sqlite
