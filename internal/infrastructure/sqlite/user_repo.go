package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/percefons/auth-service/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return findUser(r.db.WithContext(ctx), "username = ?", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return findUser(r.db.WithContext(ctx), "email = ?", email)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return findUser(r.db.WithContext(ctx), "id = ?", id)
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m := userModel{
		Username:       user.Username,
		Email:          user.Email,
		PasswordDigest: user.PasswordDigest,
		CreatedAt:      user.CreatedAt,
		IsActive:       user.IsActive,
		IsStaff:        user.IsStaff,
		IsSuperuser:    user.IsSuperuser,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDuplicate(err) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return toDomainUser(&m), nil
}

func findUser(db *gorm.DB, cond string, arg any) (*domain.User, error) {
	var m userModel
	if err := db.Where(cond, arg).First(&m).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	u := toDomainUser(&m)
	perms, err := userPermissions(db, m.ID)
	if err != nil {
		return nil, err
	}
	u.Permissions = perms
	return u, nil
}

func userPermissions(db *gorm.DB, userID int64) ([]domain.Permission, error) {
	var rows []permissionModel
	err := db.Session(&gorm.Session{NewDB: true}).
		Model(&permissionModel{}).
		Select("permissions.id, permissions.name, permissions.code_name").
		Joins("JOIN user_permissions ON user_permissions.permission_id = permissions.id").
		Where("user_permissions.user_id = ?", userID).
		Order("permissions.name").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find user permissions: %w", err)
	}

	var perms []domain.Permission
	for i := range rows {
		perms = append(perms, *toDomainPermission(&rows[i]))
	}
	return perms, nil
}
