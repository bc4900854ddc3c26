// Package store defines interfaces for data persistence operations on
// cities and users, plus the sentinel errors those operations report.
// The interfaces keep the service layer independent of PostgreSQL; the
// sentinels (not-found, duplicate, conflict) are what handlers map to
// HTTP status codes.
package store
