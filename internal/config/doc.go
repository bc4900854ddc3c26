// Package config handles configuration loading, parsing, and validation
// from environment variables and config files. Every setting the token
// issuer and HTTP server depend on is validated here at startup, so a
// bad signing key or token lifetime aborts the process before it serves
// a single request.
package config
