// Package repository implements MySQL persistence for facilities, bookings,
// issues and users.  This file defines the sentinel errors shared across the
// repositories.  Handlers compare against these values with errors.Is and
// translate them into HTTP responses; the repositories themselves never
// write responses or log.
package repository

import "errors"

// ErrFacilityNotFound is returned when a facility id does not exist.
// Handlers translate this into HTTP 404.
var ErrFacilityNotFound = errors.New("facility not found")

// ErrBookingNotFound is returned when a booking id does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrIssueNotFound is returned when an issue id does not exist.
var ErrIssueNotFound = errors.New("issue not found")

// ErrUserNotFound is returned when a user id or email does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrBookingConflict is returned when a requested booking window overlaps
// a Pending or Approved booking on the same facility and date.  Handlers
// translate this into HTTP 409.
var ErrBookingConflict = errors.New("booking window conflicts with an existing booking")

// ErrInvalidState is returned when a lifecycle transition is attempted from
// a terminal state: deciding a non-Pending booking or resolving an already
// resolved issue.  Handlers translate this into HTTP 409.
var ErrInvalidState = errors.New("record is not in a state that allows this transition")

// ErrEmailExists is returned when registration collides with an existing
// email address.
var ErrEmailExists = errors.New("email already exists")
