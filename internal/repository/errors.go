// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: for
// example ErrConflict signals that an operation cannot proceed because
// of existing dependent records (e.g. deleting a room with an active
// rental contract) or a uniqueness/date-range collision. Ownership is
// not a sentinel: queries filter by customer_id, so foreign resources
// simply surface as not found.
package repository

import "errors"

// ErrConflict is returned when an insert, update or delete cannot be
// performed because of conflicting state: a duplicate room number or
// furniture name, an overlapping booking window, or dependent rows
// blocking a delete. Handlers should translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrInvalidState is returned when a contract or payment is not in the
// status an operation requires, e.g. paying a contract that is no longer
// pending. Handlers treat this as a stale checkout and translate it into
// HTTP 409 with a "no longer valid" message.
var ErrInvalidState = errors.New("invalid state")

// ErrRoomNotFound is returned when a room lookup fails.
var ErrRoomNotFound = errors.New("room not found")

// ErrFurnitureNotFound is returned when a furniture lookup fails.
var ErrFurnitureNotFound = errors.New("furniture not found")

// ErrContractNotFound is returned when a rental contract lookup fails.
var ErrContractNotFound = errors.New("contract not found")

// ErrTokenNotFound is returned when a refresh token is unknown, revoked
// or expired.  The three cases are deliberately indistinguishable.
var ErrTokenNotFound = errors.New("refresh token not found")

// ErrInvalidDateRange is returned when a booking's end date precedes its
// start date.  Handlers translate it into HTTP 400.
var ErrInvalidDateRange = errors.New("end date before start date")
