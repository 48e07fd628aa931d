package service

import "errors"

// ErrInvalidInput marks caller mistakes: missing or malformed fields,
// rejected before any mutation is attempted. Wrapped with a message naming
// the offending field.
var ErrInvalidInput = errors.New("invalid input")
