package domain

import "errors"

// ErrNotFound is returned by repositories when the requested record does
// not exist. Callers surface it distinctly from validation failures.
var ErrNotFound = errors.New("record not found")
