package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found for this company")
	ErrInvalidRecord      = errors.New("invalid record")
	ErrCorruptRecord      = errors.New("corrupt stored record")
	ErrSeedDisabled       = errors.New("seed fixture disabled")
)

// ForbiddenError is returned by every permission gate. It unwraps to ErrForbidden.
type ForbiddenError struct {
	Permission string
}

func (e *ForbiddenError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("forbidden: missing permission %s", e.Permission)
}

func (e *ForbiddenError) Unwrap() error {
	if e == nil {
		return nil
	}
	return ErrForbidden
}

func IsForbidden(err error) (*ForbiddenError, bool) {
	var forbidden *ForbiddenError
	if errors.As(err, &forbidden) {
		return forbidden, true
	}
	return nil, false
}
