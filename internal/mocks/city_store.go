package mocks

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmallek/cities-api/internal/domain"
	"github.com/jmallek/cities-api/internal/store"
)

// MockCityStore implements store.CityStore for testing
type MockCityStore struct {
	// Function fields for customizable behavior
	ListFn       func(ctx context.Context) ([]*domain.City, error)
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.City, error)
	CreateFn     func(ctx context.Context, city *domain.City) error
	UpdateNameFn func(ctx context.Context, id uuid.UUID, name string, expectedUpdatedAt time.Time) error
	DeleteFn     func(ctx context.Context, id uuid.UUID) error

	// Data for default implementation
	Cities      map[uuid.UUID]*domain.City
	CreateError error
	ListError   error
}

// NewMockCityStore creates a new mock store with initialized defaults
func NewMockCityStore() *MockCityStore {
	return &MockCityStore{
		Cities: make(map[uuid.UUID]*domain.City),
	}
}

// List implements the CityStore interface
func (m *MockCityStore) List(ctx context.Context) ([]*domain.City, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}

	if m.ListError != nil {
		return nil, m.ListError
	}

	cities := make([]*domain.City, 0, len(m.Cities))
	for _, city := range m.Cities {
		cities = append(cities, city)
	}
	sort.Slice(cities, func(i, j int) bool {
		return cities[i].Name < cities[j].Name
	})
	return cities, nil
}

// GetByID implements the CityStore interface
func (m *MockCityStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.City, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	city, exists := m.Cities[id]
	if !exists {
		return nil, store.ErrCityNotFound
	}
	return city, nil
}

// Create implements the CityStore interface
func (m *MockCityStore) Create(ctx context.Context, city *domain.City) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, city)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	if _, exists := m.Cities[city.ID]; exists {
		return store.ErrDuplicate
	}

	m.Cities[city.ID] = city
	return nil
}

// UpdateName implements the CityStore interface with the same optimistic
// concurrency semantics as the real store.
func (m *MockCityStore) UpdateName(
	ctx context.Context,
	id uuid.UUID,
	name string,
	expectedUpdatedAt time.Time,
) error {
	if m.UpdateNameFn != nil {
		return m.UpdateNameFn(ctx, id, name, expectedUpdatedAt)
	}

	city, exists := m.Cities[id]
	if !exists {
		return store.ErrCityNotFound
	}
	if !city.UpdatedAt.Equal(expectedUpdatedAt) {
		return store.ErrConflict
	}

	city.Name = name
	city.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete implements the CityStore interface
func (m *MockCityStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, exists := m.Cities[id]; !exists {
		return store.ErrCityNotFound
	}
	delete(m.Cities, id)
	return nil
}

// WithTx implements the CityStore interface for transaction support
func (m *MockCityStore) WithTx(tx *sql.Tx) store.CityStore {
	// For mock purposes, just return the same mock
	return m
}
