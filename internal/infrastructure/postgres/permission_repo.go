package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/percefons/auth-service/internal/domain"
)

type PermissionRepository struct {
	pool *pgxpool.Pool
}

func NewPermissionRepository(pool *pgxpool.Pool) *PermissionRepository {
	return &PermissionRepository{pool: pool}
}

func (r *PermissionRepository) GetByCodeName(ctx context.Context, codeName string) (*domain.Permission, error) {
	var p domain.Permission
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, code_name FROM permissions WHERE code_name = $1`, codeName,
	).Scan(&p.ID, &p.Name, &p.CodeName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPermissionNotFound
		}
		return nil, fmt.Errorf("get permission: %w", err)
	}
	return &p, nil
}

func (r *PermissionRepository) Create(ctx context.Context, perm *domain.Permission) (*domain.Permission, error) {
	return insertPermission(ctx, r.pool, perm)
}

func (r *PermissionRepository) CreateAll(ctx context.Context, perms []*domain.Permission) ([]*domain.Permission, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	created := make([]*domain.Permission, 0, len(perms))
	for _, p := range perms {
		c, err := insertPermission(ctx, tx, p)
		if err != nil {
			return nil, err
		}
		created = append(created, c)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return created, nil
}

func (r *PermissionRepository) All(ctx context.Context) ([]*domain.Permission, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, code_name FROM permissions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()

	perms := []*domain.Permission{}
	for rows.Next() {
		var p domain.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.CodeName); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		perms = append(perms, &p)
	}
	return perms, rows.Err()
}

func insertPermission(ctx context.Context, q querier, perm *domain.Permission) (*domain.Permission, error) {
	var p domain.Permission
	err := q.QueryRow(ctx,
		`INSERT INTO permissions (name, code_name) VALUES ($1, $2) RETURNING id, name, code_name`,
		perm.Name, perm.CodeName,
	).Scan(&p.ID, &p.Name, &p.CodeName)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPermissionExists, perm.CodeName)
		}
		return nil, fmt.Errorf("insert permission: %w", err)
	}
	return &p, nil
}
