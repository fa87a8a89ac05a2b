package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/percefons/auth-service/internal/domain"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) GetByCodeName(ctx context.Context, codeName string) (*domain.Permission, error) {
	var m permissionModel
	if err := r.db.WithContext(ctx).Where("code_name = ?", codeName).First(&m).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrPermissionNotFound
		}
		return nil, fmt.Errorf("get permission: %w", err)
	}
	return toDomainPermission(&m), nil
}

func (r *PermissionRepository) Create(ctx context.Context, perm *domain.Permission) (*domain.Permission, error) {
	return createPermission(r.db.WithContext(ctx), perm)
}

func (r *PermissionRepository) CreateAll(ctx context.Context, perms []*domain.Permission) ([]*domain.Permission, error) {
	created := make([]*domain.Permission, 0, len(perms))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range perms {
			c, err := createPermission(tx, p)
			if err != nil {
				return err
			}
			created = append(created, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *PermissionRepository) All(ctx context.Context) ([]*domain.Permission, error) {
	var rows []permissionModel
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}

	perms := make([]*domain.Permission, 0, len(rows))
	for i := range rows {
		perms = append(perms, toDomainPermission(&rows[i]))
	}
	return perms, nil
}

func createPermission(db *gorm.DB, perm *domain.Permission) (*domain.Permission, error) {
	m := permissionModel{Name: perm.Name, CodeName: perm.CodeName}
	if err := db.Create(&m).Error; err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPermissionExists, perm.CodeName)
		}
		return nil, fmt.Errorf("insert permission: %w", err)
	}
	return toDomainPermission(&m), nil
}
