// Package common contains shared constants used across jobctl components.
package common

// AuthScheme is the authorization scheme the backend expects on
// authenticated requests (Django REST framework token authentication),
// i.e. "Authorization: Token <token>".
const AuthScheme = "Token"

// RequestIDHeader carries a unique id attached to every outgoing request.
const RequestIDHeader = "X-Request-Id"
