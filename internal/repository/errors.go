// Package repository implements persistence over database/sql. Sentinel
// errors defined here let handlers map storage failures to HTTP status
// codes without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a lookup by key matches no row. Handlers
// translate it into HTTP 404 (or collapse it, for refresh tokens, into the
// generic invalid-token failure).
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when inserting a user whose email is already
// taken. Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")
