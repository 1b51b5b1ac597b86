package ports

import (
	"context"

	"github.com/accounthub/user-service/internal/core/domain"
)

// RegisterInput is the payload of a registration request.
type RegisterInput struct {
	LastName  string
	FirstName string
	Email     string
	Password  string
}

// AuthResult pairs a user with a freshly issued token bound to the user's
// current version.
type AuthResult struct {
	User  *domain.User
	Token string
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Authenticate resolves a bearer token to its user. Every failure mode
	// (malformed token, unknown user, stale version) collapses to
	// domain.ErrUnauthenticated.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	// UpdateProfile mutates the actor's own record; actorID != targetID is
	// rejected with domain.ErrForbidden. A successful update bumps the
	// stored version, invalidating every previously issued token.
	UpdateProfile(ctx context.Context, actorID, targetID string, update ProfileUpdate) (*domain.User, error)
}
