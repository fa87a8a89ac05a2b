package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/percefons/auth-service/internal/domain"
)

const userColumns = `id, username, email, password_digest, created_at, is_active, is_staff, is_superuser`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return getUser(ctx, r.pool, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return getUser(ctx, r.pool, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return getUser(ctx, r.pool, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (username, email, password_digest, created_at, is_active, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordDigest,
		user.CreatedAt,
		user.IsActive,
		user.IsStaff,
		user.IsSuperuser,
	)

	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

func getUser(ctx context.Context, q querier, query string, arg any) (*domain.User, error) {
	u, err := scanUser(q.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, err
	}
	if u.Permissions, err = userPermissions(ctx, q, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func userPermissions(ctx context.Context, q querier, userID int64) ([]domain.Permission, error) {
	rows, err := q.Query(ctx, `
		SELECT p.id, p.name, p.code_name
		FROM permissions p
		JOIN user_permissions up ON up.permission_id = p.id
		WHERE up.user_id = $1
		ORDER BY p.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("query user permissions: %w", err)
	}
	defer rows.Close()

	var perms []domain.Permission
	for rows.Next() {
		var p domain.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.CodeName); err != nil {
			return nil, fmt.Errorf("scan user permission: %w", err)
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordDigest, &u.CreatedAt,
		&u.IsActive, &u.IsStaff, &u.IsSuperuser,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
