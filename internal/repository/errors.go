// Package repository defines the persistence contracts of the booking core
// and their MySQL implementation.  The sentinel errors below let higher
// layers tell failure scenarios apart without looking at SQL errors.
package repository

import "errors"

// ErrNotFound is returned when a row does not exist.  Callers that enforce
// ownership also use it for rows owned by someone else.
var ErrNotFound = errors.New("not found")

// ErrInsufficientInventory is returned by a reservation that would take a
// room's available quantity below zero.
var ErrInsufficientInventory = errors.New("insufficient inventory")

// ErrConflict is returned when a write cannot be performed because of
// conflicting state, such as deleting a room that still has live bookings.
var ErrConflict = errors.New("conflict")
