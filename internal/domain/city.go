package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// City-specific validation errors
var (
	// ErrCityIDEmpty is returned when a city ID is empty or nil.
	ErrCityIDEmpty = errors.New("city ID cannot be empty")

	// ErrCityNameEmpty is returned when a city's name is empty or whitespace.
	ErrCityNameEmpty = errors.New("city name cannot be empty")

	// ErrCityNameTooLong is returned when a city's name exceeds the storage limit.
	ErrCityNameTooLong = errors.New("city name cannot exceed 200 characters")
)

// maxCityNameLength matches the column limit in the cities table.
const maxCityNameLength = 200

// City represents a single city record. The ID is generated server-side at
// creation and never reassigned; only the name is mutable afterwards.
type City struct {
	ID        uuid.UUID `json:"city_id"`
	Name      string    `json:"city_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCity creates a new City with the given name and a freshly generated ID.
// Returns an error if validation fails.
func NewCity(name string) (*City, error) {
	return NewCityWithID(uuid.New(), name)
}

// NewCityWithID creates a new City with a caller-supplied ID. Used when a
// client provides its own identifier on create.
// Returns an error if validation fails.
func NewCityWithID(id uuid.UUID, name string) (*City, error) {
	now := time.Now().UTC()
	city := &City{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := city.Validate(); err != nil {
		return nil, err
	}

	return city, nil
}

// Validate checks if the City has valid data.
// Returns an error if any field fails validation.
func (c *City) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCityIDEmpty
	}

	if strings.TrimSpace(c.Name) == "" {
		return ErrCityNameEmpty
	}

	if len(c.Name) > maxCityNameLength {
		return ErrCityNameTooLong
	}

	return nil
}

// Rename updates the city's name and bumps the UpdatedAt timestamp.
// The ID is deliberately untouchable here; callers can only change the name.
// Returns an error if the new name is invalid.
func (c *City) Rename(name string) error {
	origName := c.Name
	c.Name = name

	if err := c.Validate(); err != nil {
		c.Name = origName
		return err
	}

	c.UpdatedAt = time.Now().UTC()
	return nil
}
