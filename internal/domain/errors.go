package domain

import "errors"

var (
	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrPostNotFound is returned when a referenced post does not exist.
	ErrPostNotFound = errors.New("post not found")

	// ErrAlreadyConnected is returned when a connection request targets a
	// user who is already connected.
	ErrAlreadyConnected = errors.New("users are already connected")

	// ErrConnectionPending is returned when a duplicate connection request
	// is made while one is still pending.
	ErrConnectionPending = errors.New("connection request already pending")

	// ErrSelfTarget is returned when a user tries to follow, connect to, or
	// message themselves.
	ErrSelfTarget = errors.New("operation cannot target the requesting user")
)
