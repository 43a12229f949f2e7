package model

import "errors"

// Common errors used across the application
var (
	// Roster errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrGameNotFound   = errors.New("game not found")
	ErrInvalidName    = errors.New("name must not be empty")
	ErrInvalidColour  = errors.New("invalid colour")

	// Match errors
	ErrMatchNotFound = errors.New("match not found")

	// Storage errors
	ErrDocumentNotFound  = errors.New("document not found")
	ErrUnknownCollection = errors.New("unknown collection")

	// Configuration errors
	ErrUnknownScheme = errors.New("unknown rating scheme")
)
