// Package domain contains the core entities of the system: City records
// identified by server-generated UUIDs, and User accounts whose identity
// feeds the token issuer. Validation rules live on the entities so every
// path into storage enforces the same constraints.
package domain
