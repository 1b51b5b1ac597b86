package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUnauthenticated = errors.New("authentication required")
var ErrForbidden = errors.New("access forbidden")

// User models a registered account.
//
// Version is bumped by exactly one on every accepted profile mutation and is
// embedded into every issued token; a mismatch between the two is the sole
// token-invalidation mechanism. Neither Version nor PasswordHash is ever
// rendered to clients.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PasswordHash string    `json:"-"`
	Version      int       `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ValidationError reports the first violated rule of a request payload.
// The message format "<field>: <reason>" is part of the API contract.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
