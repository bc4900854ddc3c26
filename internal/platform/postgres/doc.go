// Package postgres provides PostgreSQL-backed implementations of the
// storage interfaces defined in the internal/store package. It maps the
// city and user domain entities onto their tables, translates driver
// errors into the store package's sentinel errors, and implements the
// timestamp-guarded update that backs optimistic concurrency on city
// renames.
package postgres
