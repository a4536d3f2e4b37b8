package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Emulator errors
	ErrEmulatorStart   = fmt.Errorf("emulator failed to start")
	ErrEmulatorTimeout = fmt.Errorf("emulator not ready before timeout")

	// Schema errors
	ErrEmptySchema = fmt.Errorf("schema script contains no statements")

	// Data errors
	ErrNotFound = fmt.Errorf("record not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
