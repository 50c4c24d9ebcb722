package model

import (
	"time"

	"github.com/google/uuid"
)

// Framework is a compliance framework an organization works against, such
// as SOC 2 or ISO 27001. Code is unique per organization.
type Framework struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID       uuid.UUID `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	Code        string    `gorm:"column:code;not null" json:"code"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	Version     string    `gorm:"column:version" json:"version"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Framework) TableName() string {
	return "frameworks"
}
