package api

import (
	"time"

	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the account registration endpoint.
type RegisterRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required"`
	Password    string `json:"password"     validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the account login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
// It carries the issued access token alongside the display metadata clients
// show after login.
type AuthResponse struct {
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Token       string    `json:"token"`
	Expiration  time.Time `json:"expiration"`
}

// CityResponse is the version-1 representation of a city record.
type CityResponse struct {
	CityID   uuid.UUID `json:"city_id"`
	CityName string    `json:"city_name"`
}

// CityAddRequest defines the payload for creating a city. The ID is optional;
// when omitted the server generates one.
type CityAddRequest struct {
	CityID   uuid.UUID `json:"city_id,omitempty"`
	CityName string    `json:"city_name" validate:"required,max=200"`
}

// CityUpdateRequest defines the payload for renaming a city. The body ID must
// match the ID in the URL path; only the name is writable.
type CityUpdateRequest struct {
	CityID   uuid.UUID `json:"city_id"   validate:"required"`
	CityName string    `json:"city_name" validate:"required,max=200"`
}
