// Package common contains shared constants and sentinel errors used across
// songkeeper components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only authorization scheme the API accepts.
const BearerScheme = "Bearer"

// DefaultPageSize is used when no page size is configured.
const DefaultPageSize = 10
