package database

import "errors"

// ErrNotReady indicates the pool was used before Start verified it.
var ErrNotReady = errors.New("database not ready")
