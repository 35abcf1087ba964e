package cart

import "errors"

var (
	// ErrNoRecord is returned by a Persister that has nothing stored yet.
	ErrNoRecord = errors.New("cart record not found")
	// ErrUnsupportedSchema means the stored record was written by a newer version.
	ErrUnsupportedSchema = errors.New("unsupported cart schema version")
)
