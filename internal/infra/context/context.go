// Package context holds the request-scoped values shared between transport,
// logging and services.
package context

type contextKey string
