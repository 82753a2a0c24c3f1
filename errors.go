package pace

import "errors"

var (
	// Configuration errors.
	ErrInvalidConfig = errors.New("pace: invalid configuration")

	// Execution errors.
	ErrAlreadyExecuted = errors.New("pace: item already executed")

	// Schedule errors.
	ErrDuplicateEntry = errors.New("pace: duplicate schedule entry")
	ErrEntryNotFound  = errors.New("pace: schedule entry not found")
)
