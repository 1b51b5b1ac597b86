package ports

import (
	"context"

	"github.com/accounthub/user-service/internal/core/domain"
)

// ProfileUpdate carries the mutable profile fields of a partial update.
// A nil pointer means the field was not supplied and must be left untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
}

// UserRepository defines the persistence contract for user records.
//
// UpdateProfile must apply the supplied fields and increment the user's
// version in a single atomic step; concurrent updates to the same user
// serialize, each observing a distinct pre-increment version.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ListAll(ctx context.Context) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.User, error)
}
