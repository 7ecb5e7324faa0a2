package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrEmailRequired    = fmt.Errorf("%w: email is required", ErrInvalidInput)
	ErrPasswordRequired = fmt.Errorf("%w: password is required", ErrInvalidInput)
	ErrTextRequired     = fmt.Errorf("%w: task text is required", ErrInvalidInput)
	ErrInvalidPriority  = fmt.Errorf("%w: priority must be low, medium or high", ErrInvalidInput)

	ErrDuplicateEmail     = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrTaskNotFound              = errors.New("task not found")
	ErrClassificationUnavailable = errors.New("classification unavailable")
)
