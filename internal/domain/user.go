package domain

import (
	"strconv"
	"time"
)

type User struct {
	ID             int64 // zero until the store assigns one
	Username       string
	Email          *string // nil means no email on file
	PasswordDigest string
	CreatedAt      time.Time

	IsActive    bool
	IsStaff     bool
	IsSuperuser bool

	Permissions []Permission
}

func (u *User) Activate()   { u.IsActive = true }
func (u *User) Deactivate() { u.IsActive = false }

// Subject is the identity claim written into tokens issued for u.
func (u *User) Subject() string {
	return strconv.FormatInt(u.ID, 10)
}

// HasPermission reports whether codeName is among u's granted permissions.
func (u *User) HasPermission(codeName string) bool {
	for _, p := range u.Permissions {
		if p.CodeName == codeName {
			return true
		}
	}
	return false
}

type Permission struct {
	ID       int64
	Name     string
	CodeName string
}

// DefaultPermissions are seeded into a fresh database.
func DefaultPermissions() []*Permission {
	return []*Permission{
		{Name: "Can view user", CodeName: "VIEW_USER"},
		{Name: "Can create user", CodeName: "CREATE_USER"},
		{Name: "Can change user", CodeName: "CHANGE_USER"},
		{Name: "Can delete user", CodeName: "DELETE_USER"},
	}
}
