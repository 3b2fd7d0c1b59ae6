package repository

import "errors"

// ErrNotFound is returned when a document, sale, backup or account does not exist.
var ErrNotFound = errors.New("record not found")
