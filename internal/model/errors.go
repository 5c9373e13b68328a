package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already registered")

	// Slot errors
	ErrSlotNotFound = errors.New("slot not found")
)
