package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a login account. Email is unique across all organizations so a
// login request can resolve its tenant from the address alone. PasswordHash
// is empty for accounts provisioned through SSO.
type User struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID         uuid.UUID  `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	Email         string     `gorm:"column:email;not null;unique" json:"email"`
	DisplayName   string     `gorm:"column:display_name;not null" json:"display_name"`
	PasswordHash  string     `gorm:"column:password_hash" json:"-"`
	AzureObjectID *string    `gorm:"column:azure_object_id;unique" json:"azure_object_id,omitempty"`
	RoleID        uuid.UUID  `gorm:"column:role_id;type:uuid;not null" json:"role_id"`
	Role          *Role      `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	PersonID      *uuid.UUID `gorm:"column:person_id;type:uuid" json:"person_id,omitempty"`
	Disabled      bool       `gorm:"column:disabled;not null;default:false" json:"disabled"`
	LastLoginAt   *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// CanLoginWithPassword reports whether local password login is possible.
func (u *User) CanLoginWithPassword() bool {
	return !u.Disabled && u.PasswordHash != ""
}
