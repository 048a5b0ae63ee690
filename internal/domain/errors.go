package domain

import "errors"

var (
	// ErrNotFound is returned by stores when a user has no stored preferences.
	ErrNotFound = errors.New("not found")

	ErrInvalidEvent       = errors.New("invalid event")
	ErrInvalidWindow      = errors.New("invalid dnd window")
	ErrInvalidPreferences = errors.New("invalid preferences")

	// ErrMalformedRecord marks stored data that cannot be decoded.
	ErrMalformedRecord = errors.New("malformed stored record")
)
