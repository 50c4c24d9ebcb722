package model

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the tenant root. Every other row hangs off one via org_id.
// Domain is the primary email domain, used to route single sign-on users to
// their tenant.
type Organization struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Slug      string    `gorm:"column:slug;not null;unique" json:"slug"`
	Domain    string    `gorm:"column:domain" json:"domain"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Organization) TableName() string {
	return "organizations"
}

// NewOrganization returns an organization with a fresh ID.
func NewOrganization(name, slug string) *Organization {
	return &Organization{ID: uuid.New(), Name: name, Slug: slug}
}
