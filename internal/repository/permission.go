package repository

import (
	"context"

	"github.com/percefons/auth-service/internal/domain"
)

type PermissionRepository interface {
	GetByCodeName(ctx context.Context, codeName string) (*domain.Permission, error)
	// Create returns domain.ErrPermissionExists on a duplicate code name.
	Create(ctx context.Context, perm *domain.Permission) (*domain.Permission, error)
	// CreateAll inserts every permission or none of them.
	CreateAll(ctx context.Context, perms []*domain.Permission) ([]*domain.Permission, error)
	// All returns every permission ordered by name; empty when none exist.
	All(ctx context.Context) ([]*domain.Permission, error)
}

// UserPermissionRepository manages the user <-> permission association.
// Both methods return the user with its permission set reloaded.
type UserPermissionRepository interface {
	// Grant is idempotent. It fails with domain.ErrUserNotFound or
	// domain.ErrPermissionNotFound when either side does not exist.
	Grant(ctx context.Context, perm *domain.Permission, user *domain.User) (*domain.User, error)
	// Revoke on a missing user or permission is a no-op that returns user
	// unchanged and a nil error.
	Revoke(ctx context.Context, perm *domain.Permission, user *domain.User) (*domain.User, error)
}
