package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/percefons/auth-service/internal/domain"
)

type UserPermissionRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewUserPermissionRepository(db *gorm.DB, logger *slog.Logger) *UserPermissionRepository {
	return &UserPermissionRepository{db: db, logger: logger.With("component", "user_permission_repo")}
}

func (r *UserPermissionRepository) Grant(ctx context.Context, perm *domain.Permission, user *domain.User) (*domain.User, error) {
	var updated *domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureTargets(tx, perm.ID, user.ID); err != nil {
			return err
		}

		link := userPermissionModel{UserID: user.ID, PermissionID: perm.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return fmt.Errorf("grant permission: %w", err)
		}

		var err error
		updated, err = findUser(tx, "id = ?", user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *UserPermissionRepository) Revoke(ctx context.Context, perm *domain.Permission, user *domain.User) (*domain.User, error) {
	updated := user
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch err := ensureTargets(tx, perm.ID, user.ID); {
		case errors.Is(err, domain.ErrPermissionNotFound):
			r.logger.WarnContext(ctx, "revoke: permission not found", "code_name", perm.CodeName)
			return nil
		case errors.Is(err, domain.ErrUserNotFound):
			r.logger.WarnContext(ctx, "revoke: user not found", "username", user.Username)
			return nil
		case err != nil:
			return err
		}

		err := tx.Where("user_id = ? AND permission_id = ?", user.ID, perm.ID).
			Delete(&userPermissionModel{}).Error
		if err != nil {
			return fmt.Errorf("revoke permission: %w", err)
		}

		updated, err = findUser(tx, "id = ?", user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func ensureTargets(tx *gorm.DB, permID, userID int64) error {
	var n int64
	if err := tx.Model(&permissionModel{}).Where("id = ?", permID).Count(&n).Error; err != nil {
		return fmt.Errorf("check permission: %w", err)
	}
	if n == 0 {
		return domain.ErrPermissionNotFound
	}
	if err := tx.Model(&userModel{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
