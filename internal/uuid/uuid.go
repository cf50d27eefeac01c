// Package uuid generates the identifiers used for favorites and request ids.
package uuid

import googleuuid "github.com/google/uuid"

// New returns a time-ordered UUIDv7 string, falling back to a random v4 when
// the v7 generator fails.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.NewString()
	}
	return id.String()
}

// Normalize returns s in canonical lowercase form when it is a valid UUID.
func Normalize(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
