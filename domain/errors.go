package domain

import "fmt"

// ValidationError reports a parameter that must be strictly positive.
type ValidationError struct {
	Field string
	Value float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s must be greater than zero, got %v", e.Field, e.Value)
}

// PersistenceError wraps a failure from the backing estimate store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s estimate: persistence failure", e.Op)
	}
	return fmt.Sprintf("%s estimate: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
