package session

import "errors"

// ErrNotFound is returned when a session id is unknown (including the
// empty id).
var ErrNotFound = errors.New("session: not found")
