package models

import "errors"

var (
	// ErrPropertyNotFound is returned when no property has the requested ID.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrInvalidPropertyID is returned when an ID is not well formed for the backing store.
	ErrInvalidPropertyID = errors.New("invalid property id")
)

// ErrUserNotFound is returned when no admin user matches the lookup.
var ErrUserNotFound = errors.New("user not found")
