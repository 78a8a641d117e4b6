// Package errs defines the error taxonomy shared across the service layer.
// Callers wrap these sentinels with fmt.Errorf("...: %w", ...) so HTTP
// handlers can map them to a status code with errors.Is.
package errs

import "errors"

var (
	// ErrValidation covers bad or missing input: unknown menu item,
	// unavailable item, empty item list, unrecognized status token.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers references to orders or catalog items that do not
	// exist.
	ErrNotFound = errors.New("not found")
)
