// Package common contains shared constants and the error taxonomy used across
// getfit client components.
package common

// Keys under which credentials are persisted in the secure credential store.
// They mirror the in-memory session one to one.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
	UserKey         = "user_data"
)

// CredentialKeys lists every persisted credential key, in write order.
var CredentialKeys = []string{AccessTokenKey, RefreshTokenKey, UserKey}

// Outbound HTTP header names.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)
