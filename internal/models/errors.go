package models

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("version conflict")
)

var (
	ErrListingNotFound = fmt.Errorf("listing %w", ErrNotFound)
	ErrCrawledNotFound = fmt.Errorf("crawled listing %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)

	ErrInvalidStatus      = fmt.Errorf("%w: invalid status value", ErrValidation)
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = fmt.Errorf("%w: email or username already registered", ErrValidation)
)
