// Package client talks to the notekeeper server and opens the local database.
//
// HTTPClient implements Remote over the JSON REST API. Every call runs under
// its own deadline. Authenticated calls take their bearer token from a
// TokenSource and are refused with ErrNoSession when there is none. A 401
// "Token expired" answer triggers one refresh through /auth/refresh followed
// by a single retry.
//
// Failures are classified so callers can match them with errors.Is:
//
//	ErrUnavailable      dial error, deadline, 5xx
//	ErrUnauthorized     401
//	ErrNoSession        no access token
//	common.ErrorNotFound, common.ErrorValidation, common.ErrorForbidden,
//	common.ErrorConflict for 404, 400, 403 and 409
//
// The status code and server message stay available through *APIError.
//
// HealthChecker checks the server's gRPC health endpoint and is used only to
// drive the online indicator. InitDatabase opens the SQLite file and applies
// the embedded migrations.
package client
