package vehicle

import "errors"

var (
	ErrNotFound          = errors.New("vehicle not found")
	ErrDuplicateVIN      = errors.New("vin already registered")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadySold       = errors.New("vehicle already sold")
	ErrJobNotFound       = errors.New("maintenance job not found")
	ErrJobClosed         = errors.New("maintenance job already closed")
)
