package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrPartialUpdateUnsupported indicates that the document store backend does
// not support partial document updates and the caller must fall back to a
// full document update.
var ErrPartialUpdateUnsupported = errors.New("partial document update not supported")
