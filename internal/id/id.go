// Package id generates correlation identifiers for outbound requests.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// RequestPrefix prefixes request ids sent in X-Request-ID.
	RequestPrefix = "req"

	// Lowercase alphanumerics keep ids safe in headers and grep-friendly in server logs.
	alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	size     = 16
)

// Generate creates a prefixed id, e.g. "req-3k9x0c2mf1qz8a7b".
// Returns an error if the system has insufficient entropy.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.Generate(alphabet, size)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// NewRequestID returns a request id, or "" if one could not be generated.
// A missing correlation id never blocks a request.
func NewRequestID() string {
	id, err := Generate(RequestPrefix)
	if err != nil {
		return ""
	}
	return id
}
