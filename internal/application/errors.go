package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")

	// ErrNotFound covers listings addressed by id that do not exist, and
	// reads of listings the caller is not allowed to see.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is a write-path policy denial: the listing exists but the
	// principal does not own it.
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("authentication required")
	// ErrNotConfigured means server-side upload secrets are absent. Issuing a
	// signature over an empty secret would produce verifiable-but-worthless
	// credentials, so the issuer refuses instead.
	ErrNotConfigured = errors.New("upload provider not configured")
)

// ValidationError carries field-level messages for 422 responses.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
