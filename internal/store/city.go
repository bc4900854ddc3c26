package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/jmallek/cities-api/internal/domain"
)

// CityStore defines the interface for city data persistence.
type CityStore interface {
	// List retrieves all cities ordered by name ascending.
	// Returns an empty slice (not nil) when the collection is empty.
	List(ctx context.Context) ([]*domain.City, error)

	// GetByID retrieves a city by its unique ID.
	// Returns ErrCityNotFound if the city does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.City, error)

	// Create saves a new city to the store.
	// Returns ErrDuplicate if a city with the same ID already exists.
	// Returns validation errors from the domain City if data is invalid.
	Create(ctx context.Context, city *domain.City) error

	// UpdateName changes the name of an existing city. Only the name is
	// written; every other column is left untouched.
	//
	// expectedUpdatedAt implements optimistic concurrency: the update only
	// applies if the stored record still carries that timestamp. When the
	// record changed underneath the caller, ErrConflict is returned; when
	// it vanished entirely, ErrCityNotFound. Callers decide whether to
	// retry (typically once) or surface the conflict.
	UpdateName(ctx context.Context, id uuid.UUID, name string, expectedUpdatedAt time.Time) error

	// Delete removes a city from the store by its ID.
	// Returns ErrCityNotFound if the city does not exist.
	// This operation is permanent and cannot be undone.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new CityStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) CityStore
}
