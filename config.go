package pace

import "time"

// Config holds manager-level configuration.
type Config struct {
	// PollInterval is the fallback wait between admission checks when the
	// policy declines to recommend one.
	PollInterval time.Duration

	// ShutdownTimeout is the maximum time Stop waits for in-flight items
	// to drain before giving up.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		PollInterval:    10 * time.Millisecond,
		ShutdownTimeout: 30 * time.Second,
	}
}
