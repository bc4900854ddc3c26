package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all settings consumed by the token issuer. Every field
// except the clock skew is mandatory; a missing or invalid value aborts
// startup rather than failing on the first request.
type AuthConfig struct {
	// JWTSecret is the HMAC-SHA256 signing key. Must be at least 32 bytes
	// (256 bits); anything shorter is a fatal configuration error.
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes is the issued token TTL. Strictly positive.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// Issuer is the `iss` claim stamped into every token and expected back
	// on verification.
	Issuer string `mapstructure:"issuer" validate:"required"`

	// Audience is the `aud` claim stamped into every token and expected
	// back on verification.
	Audience string `mapstructure:"audience" validate:"required"`

	// ClockSkewSeconds is the leeway applied to time-based claims during
	// verification to tolerate clock drift. Defaults to zero.
	ClockSkewSeconds int `mapstructure:"clock_skew_seconds" validate:"gte=0"`
}
