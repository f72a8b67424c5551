// Package id allocates the prefixed identifiers used for books and tags.
package id

import (
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for catalog records.
const (
	PrefixBook = "book"
	PrefixTag  = "tag"
)

// maxAttempts bounds GenerateUnique when the caller reports every candidate as taken.
const maxAttempts = 8

// ErrExhausted is returned when GenerateUnique cannot find a free ID.
var ErrExhausted = errors.New("id: no free identifier after retries")

// Generate creates a prefixed NanoID, e.g. "book-V1StGXR8_Z5jdHi6B-myT".
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// GenerateUnique is Generate with a collision check against IDs already in use.
// taken is called with each candidate; a candidate it accepts is never returned.
func GenerateUnique(prefix string, taken func(string) bool) (string, error) {
	for range maxAttempts {
		candidate, err := Generate(prefix)
		if err != nil {
			return "", err
		}
		if taken == nil || !taken(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w (prefix %q)", ErrExhausted, prefix)
}
