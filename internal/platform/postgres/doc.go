// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package.
// It handles query execution, mapping between domain entities and rows,
// and translation of PostgreSQL error codes into store errors.
// Schema migrations are embedded and applied through internal/platform/migrate.
package postgres
