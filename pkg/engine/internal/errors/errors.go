package errors

import "errors"

var (
	// ErrIndex is returned when an operator is asked for a partition it does
	// not own.
	ErrIndex = errors.New("index error")
	// ErrStructure is returned when a plan node or operator is rebuilt with
	// children that do not fit its kind.
	ErrStructure      = errors.New("structural mismatch")
	ErrKey            = errors.New("key error")
	ErrType           = errors.New("type error")
	ErrNotImplemented = errors.New("not implemented")
)
