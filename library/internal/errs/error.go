package errs

import (
	"errors"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("resource not available")
	ErrInvalidFormat = errors.New("invalid image format")
	ErrInvalidID     = errors.New("invalid id")
	ErrNoFile        = errors.New("no file was sent")
)
