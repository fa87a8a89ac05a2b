package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/percefons/auth-service/internal/domain"
)

const permissionFK = "user_permissions_permission_id_fkey"

type UserPermissionRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewUserPermissionRepository(pool *pgxpool.Pool, logger *slog.Logger) *UserPermissionRepository {
	return &UserPermissionRepository{pool: pool, logger: logger.With("component", "user_permission_repo")}
}

func (r *UserPermissionRepository) Grant(ctx context.Context, perm *domain.Permission, user *domain.User) (*domain.User, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_permissions (user_id, permission_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, user.ID, perm.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
			if pgErr.ConstraintName == permissionFK {
				return nil, domain.ErrPermissionNotFound
			}
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("grant permission: %w", err)
	}
	return getUser(ctx, r.pool, `SELECT `+userColumns+` FROM users WHERE id = $1`, user.ID)
}

func (r *UserPermissionRepository) Revoke(ctx context.Context, perm *domain.Permission, user *domain.User) (*domain.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var permExists, userExists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM permissions WHERE id = $1),
		       EXISTS (SELECT 1 FROM users WHERE id = $2)`, perm.ID, user.ID,
	).Scan(&permExists, &userExists)
	if err != nil {
		return nil, fmt.Errorf("check revoke targets: %w", err)
	}
	if !permExists {
		r.logger.WarnContext(ctx, "revoke: permission not found", "code_name", perm.CodeName)
		return user, nil
	}
	if !userExists {
		r.logger.WarnContext(ctx, "revoke: user not found", "username", user.Username)
		return user, nil
	}

	if _, err = tx.Exec(ctx,
		`DELETE FROM user_permissions WHERE user_id = $1 AND permission_id = $2`, user.ID, perm.ID,
	); err != nil {
		return nil, fmt.Errorf("revoke permission: %w", err)
	}

	updated, err := getUser(ctx, tx, `SELECT `+userColumns+` FROM users WHERE id = $1`, user.ID)
	if err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return updated, nil
}
