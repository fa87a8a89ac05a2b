package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/percefons/auth-service/internal/domain"
	"github.com/percefons/auth-service/internal/repository"
)

type PermissionUsecase struct {
	perms  repository.PermissionRepository
	grants repository.UserPermissionRepository
	users  repository.UserRepository
	logger *slog.Logger
}

func NewPermissionUsecase(
	perms repository.PermissionRepository,
	grants repository.UserPermissionRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *PermissionUsecase {
	return &PermissionUsecase{
		perms:  perms,
		grants: grants,
		users:  users,
		logger: logger.With("component", "permission_usecase"),
	}
}

// SeedDefaults creates whichever default permissions are missing and returns
// the ones it created. Running it twice creates nothing the second time.
func (u *PermissionUsecase) SeedDefaults(ctx context.Context) ([]*domain.Permission, error) {
	var missing []*domain.Permission
	for _, p := range domain.DefaultPermissions() {
		_, err := u.perms.GetByCodeName(ctx, p.CodeName)
		switch {
		case err == nil:
			continue
		case errors.Is(err, domain.ErrPermissionNotFound):
			missing = append(missing, p)
		default:
			return nil, fmt.Errorf("find permission %s: %w", p.CodeName, err)
		}
	}

	if len(missing) == 0 {
		u.logger.InfoContext(ctx, "default permissions already present")
		return nil, nil
	}

	created, err := u.perms.CreateAll(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("create permissions: %w", err)
	}
	u.logger.InfoContext(ctx, "default permissions seeded", "count", len(created))
	return created, nil
}

func (u *PermissionUsecase) List(ctx context.Context) ([]*domain.Permission, error) {
	perms, err := u.perms.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return perms, nil
}

// Grant gives the permission named codeName to the user with userID.
func (u *PermissionUsecase) Grant(ctx context.Context, codeName string, userID int64) (*domain.User, error) {
	perm, err := u.perms.GetByCodeName(ctx, codeName)
	if err != nil {
		return nil, fmt.Errorf("find permission: %w", err)
	}
	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u.grants.Grant(ctx, perm, user)
}

// Revoke takes codeName away from the user. An unknown permission is logged
// and the user is returned untouched.
func (u *PermissionUsecase) Revoke(ctx context.Context, codeName string, userID int64) (*domain.User, error) {
	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	perm, err := u.perms.GetByCodeName(ctx, codeName)
	if err != nil {
		if errors.Is(err, domain.ErrPermissionNotFound) {
			u.logger.WarnContext(ctx, "revoke: permission not found", "code_name", codeName)
			return user, nil
		}
		return nil, fmt.Errorf("find permission: %w", err)
	}
	return u.grants.Revoke(ctx, perm, user)
}

// GrantAll gives user every permission in the store.
func (u *PermissionUsecase) GrantAll(ctx context.Context, user *domain.User) (*domain.User, error) {
	perms, err := u.perms.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}

	current := user
	for _, p := range perms {
		if current, err = u.grants.Grant(ctx, p, current); err != nil {
			return nil, fmt.Errorf("grant %s: %w", p.CodeName, err)
		}
	}
	return current, nil
}
