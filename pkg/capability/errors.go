package capability

import "errors"

var (
	// ErrNotSet is returned by Pop (with no default) and by Get-family
	// lookups when the requested key is absent.
	ErrNotSet = errors.New("capability: key not set")

	// ErrAlreadyEnabled is returned by Provide when the key is already
	// present with a value that does not equal the one being provided.
	ErrAlreadyEnabled = errors.New("capability: already enabled")
)
