package ledger

import "errors"

var (
	ErrNotFound       = errors.New("transaction not found")
	ErrUnknownAdvance = errors.New("referenced advance does not exist")
	ErrNotAnAdvance   = errors.New("referenced transaction is not an advance")
	ErrWrongEmployee  = errors.New("referenced advance belongs to another employee")
)
