// Package common contains constants, sentinel errors and small helpers shared
// by the notekeeper server and client.
package common

// AuthorizationHeader carries "Bearer <access token>" on authenticated calls.
const AuthorizationHeader = "Authorization"

// BearerPrefix precedes the access token in AuthorizationHeader.
const BearerPrefix = "Bearer "

// HealthServiceName is the gRPC health service name reported by the server.
const HealthServiceName = "notekeeper.NoteService"
