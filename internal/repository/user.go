package repository

import (
	"context"

	"github.com/percefons/auth-service/internal/domain"
)

// UserRepository is the user storage collaborator. Lookups return
// domain.ErrUserNotFound when nothing matches.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// Create persists user and returns it with its storage-assigned ID.
	// A username or email unique-constraint violation is reported as
	// domain.ErrUserAlreadyExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
