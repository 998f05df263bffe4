package robot

import "errors"

// Error kinds. Callers match them with errors.Is; the wrapped message carries
// the detail.
var (
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrConfiguration     = errors.New("configuration error")
)
