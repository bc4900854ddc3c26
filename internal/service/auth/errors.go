package auth

import "errors"

// Verification failure reasons. ValidateToken returns exactly one of these
// (possibly wrapped); callers branch with errors.Is and must never see a
// raw parser error or the signing key.
var (
	// ErrMalformedToken indicates the token is not a structurally valid
	// three-part JWT, or its claims are incomplete.
	ErrMalformedToken = errors.New("authentication token is malformed")

	// ErrSignatureInvalid indicates the token signature does not match the
	// payload under the configured key and algorithm.
	ErrSignatureInvalid = errors.New("authentication token signature is invalid")

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrIssuerMismatch indicates the token was minted by a different issuer.
	ErrIssuerMismatch = errors.New("authentication token issuer mismatch")

	// ErrAudienceMismatch indicates the token targets a different audience.
	ErrAudienceMismatch = errors.New("authentication token audience mismatch")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")
)
