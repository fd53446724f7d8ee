package employee

import "errors"

var (
	ErrNotFound       = errors.New("employee not found")
	ErrDuplicateEmail = errors.New("employee email already in use")
	ErrInvalidStatus  = errors.New("invalid employee status")
)
