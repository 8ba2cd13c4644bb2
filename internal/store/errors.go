package store

import "errors"

var (
	// ErrNotFound is returned when an entity cannot be found by ID or index.
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned when creating an entity whose ID or
	// unique index value is already taken.
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrUserNotFound is returned when a user cannot be found by ID or email.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when attempting to register an email that's already in use.
	ErrEmailExists = errors.New("email already in use")
	// ErrBookNotFound is returned when a book cannot be found by ID.
	ErrBookNotFound = errors.New("book not found")
)
