// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting for the account and city endpoints. It translates
// between the wire shapes (including the versioned city projections) and
// the service layer, and maps service errors onto HTTP status codes.
package api
