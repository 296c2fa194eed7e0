package domain

import "errors"

// ErrModelNotFound is returned by model stores when no model has the
// requested name.
var ErrModelNotFound = errors.New("model not found")
