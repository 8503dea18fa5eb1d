package domain

import "errors"

// Sentinel errors shared by repositories, services and controllers.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateCategory is returned when a category name is already taken.
	ErrDuplicateCategory = errors.New("category name already in use")
	// ErrAlreadyRSVPed is returned when a user RSVPs twice to the same event.
	ErrAlreadyRSVPed = errors.New("already registered for this event")
	// ErrNotRSVPed is returned when cancelling an RSVP that does not exist.
	ErrNotRSVPed = errors.New("not registered for this event")
)
