package service

import "errors"

var ErrValidation = errors.New("validation failed")

// ValidationError carries the notice shown to the user; nothing was written when it is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(msg string) error { return &ValidationError{Msg: msg} }
