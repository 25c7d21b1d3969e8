package gfx9

import "errors"

// Status errors. Every query returns one of these (possibly wrapped) or nil;
// on error the returned output must not be used.
var (
	// ErrInvalidParams is returned for parameter combinations the hardware
	// forbids.
	ErrInvalidParams = errors.New("gfx9: invalid parameters")

	// ErrNotImplemented is returned for recognized but unsupported requests,
	// such as linear metadata or mip-mapped metadata address translation.
	ErrNotImplemented = errors.New("gfx9: not implemented")

	// ErrNotSupported is returned for configurations deliberately left
	// unhandled, such as variable-block preferred settings.
	ErrNotSupported = errors.New("gfx9: not supported")

	// ErrGeneric is returned when a computation cannot complete for a reason
	// not covered above.
	ErrGeneric = errors.New("gfx9: error")
)
