package interfaces

import "errors"

// ErrNotFound is returned by repository implementations when the requested
// record does not exist. Backends wrap it with goerr for context.
var ErrNotFound = errors.New("record not found")
