package gfx9

import "log/slog"

// Option configures a Lib during creation.
//
// Example:
//
//	lib, err := gfx9.New(cfg, gfx9.WithLogger(logger))
type Option func(*libOptions)

// libOptions holds optional configuration for Lib creation.
type libOptions struct {
	logger    *slog.Logger
	metaSlots int
}

// defaultOptions returns the default Lib options.
func defaultOptions() libOptions {
	return libOptions{
		logger:    nil, // Falls back to addrlib.Logger()
		metaSlots: defaultMetaEqSlots,
	}
}

// WithLogger routes the Lib's diagnostics to l instead of the package-wide
// logger from addrlib.Logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *libOptions) {
		o.logger = l
	}
}

// WithMetaEquationCache sets the number of cached metadata equations.
// Values below 1 are ignored.
func WithMetaEquationCache(slots int) Option {
	return func(o *libOptions) {
		if slots > 0 {
			o.metaSlots = slots
		}
	}
}
