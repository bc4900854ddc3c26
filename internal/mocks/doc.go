// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of the store interfaces used
// throughout the application, facilitating consistent testing across the
// codebase. Instead of defining inline mocks in individual test files, these
// standardized mocks can be reused.
//
// Usage:
//
//	import "github.com/jmallek/cities-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    cityStore := mocks.NewMockCityStore()
//	    cityStore.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.City, error) {
//	        return nil, store.ErrCityNotFound
//	    }
//
//	    // Use the mock in your test...
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Provide a map-backed default implementation where it makes tests shorter
package mocks
