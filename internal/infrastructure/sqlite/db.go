// Package sqlite stores users and permissions in SQLite through gorm. It backs
// local development and repository tests; production runs on postgres.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/percefons/auth-service/internal/domain"
)

type userModel struct {
	ID             int64   `gorm:"primaryKey;autoIncrement"`
	Username       string  `gorm:"size:50;not null;uniqueIndex"`
	Email          *string `gorm:"size:255;uniqueIndex"`
	PasswordDigest string  `gorm:"not null"`
	CreatedAt      time.Time
	IsActive       bool `gorm:"not null;default:false"`
	IsStaff        bool `gorm:"not null;default:false"`
	IsSuperuser    bool `gorm:"not null;default:false"`
}

func (userModel) TableName() string { return "users" }

type permissionModel struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"size:50;not null"`
	CodeName string `gorm:"size:60;not null;uniqueIndex"`
}

func (permissionModel) TableName() string { return "permissions" }

type userPermissionModel struct {
	UserID       int64 `gorm:"primaryKey"`
	PermissionID int64 `gorm:"primaryKey"`
}

func (userPermissionModel) TableName() string { return "user_permissions" }

// Open connects to the database at dsn and migrates the schema. Use
// ":memory:" for a throwaway database.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// A second connection to ":memory:" would see an empty database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&userModel{}, &permissionModel{}, &userPermissionModel{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return db, nil
}

// Pinger adapts a gorm handle to the readiness checker.
type Pinger struct {
	db *gorm.DB
}

func NewPinger(db *gorm.DB) *Pinger { return &Pinger{db: db} }

func (p *Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func toDomainUser(m *userModel) *domain.User {
	return &domain.User{
		ID:             m.ID,
		Username:       m.Username,
		Email:          m.Email,
		PasswordDigest: m.PasswordDigest,
		CreatedAt:      m.CreatedAt,
		IsActive:       m.IsActive,
		IsStaff:        m.IsStaff,
		IsSuperuser:    m.IsSuperuser,
	}
}

func toDomainPermission(m *permissionModel) *domain.Permission {
	return &domain.Permission{ID: m.ID, Name: m.Name, CodeName: m.CodeName}
}

func isNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

func isDuplicate(err error) bool { return errors.Is(err, gorm.ErrDuplicatedKey) }
