package work

import "time"

// Options configures per-item behavior such as naming and timeout.
type Options struct {
	// Name is an optional human-readable label used in logs and traces.
	Name string

	// Metadata is an opaque mapping attached at submission. It is never
	// validated or interpreted by the core.
	Metadata map[string]any

	// Timeout is the maximum duration the item may run before its context
	// is cancelled. Zero means no deadline. Enforced by the Timeout
	// middleware, never by admission policies.
	Timeout time.Duration
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{}
}

// Option is a functional option for configuring an item.
type Option func(*Options)

// WithName sets a human-readable label for the item.
func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// WithMetadata attaches opaque metadata to the item.
func WithMetadata(md map[string]any) Option {
	return func(o *Options) {
		o.Metadata = md
	}
}

// WithTimeout sets the maximum execution duration for the item.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}
